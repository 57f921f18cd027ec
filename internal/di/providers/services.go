package providers

import (
	"github.com/samber/do/v2"

	"github.com/sheikhAI44/flapppybirdd/internal/logger"
	"github.com/sheikhAI44/flapppybirdd/internal/monitor"
	"github.com/sheikhAI44/flapppybirdd/internal/service"
	"github.com/sheikhAI44/flapppybirdd/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// remoteClient extracts the service-facing client interface from the
// handle, keeping the interface value nil when no client exists.
func remoteClient(h *RemoteHandle) service.RemoteClient {
	if h.Client == nil {
		return nil
	}
	return h.Client
}

// ProvideReconciliationService provides the score submission engine.
func ProvideReconciliationService(i do.Injector) (*service.ReconciliationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	remoteHandle := do.MustInvoke[*RemoteHandle](i)
	mon := do.MustInvoke[*monitor.Monitor](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReconciliationService(storeHandle.Store, remoteClient(remoteHandle), mon, v, log.Logger), nil
}

// ProvideLeaderboardService provides the leaderboard assembler.
func ProvideLeaderboardService(i do.Injector) (*service.LeaderboardService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	remoteHandle := do.MustInvoke[*RemoteHandle](i)
	mon := do.MustInvoke[*monitor.Monitor](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLeaderboardService(storeHandle.Store, remoteClient(remoteHandle), mon, log.Logger), nil
}
