package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/sheikhAI44/flapppybirdd/internal/logger"
	"github.com/sheikhAI44/flapppybirdd/internal/monitor"
	"github.com/sheikhAI44/flapppybirdd/internal/service"
)

// SyncWorkerHandle owns the monitor lifecycle and the reconnect-triggered
// flush of unsynced scores.
type SyncWorkerHandle struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SyncWorkerHandle) Shutdown() error {
	h.cancel()
	return nil
}

// ProvideSyncWorker wires the monitor to the reconciliation engine, runs
// the initial connection attempt, and starts the background probes. The
// flush callback must be registered before Init so a probe that comes back
// online immediately can trigger it.
func ProvideSyncWorker(i do.Injector) (*SyncWorkerHandle, error) {
	mon := do.MustInvoke[*monitor.Monitor](i)
	reconciliation := do.MustInvoke[*service.ReconciliationService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	mon.SetOnOnline(func() {
		go reconciliation.FlushUnsynced(ctx)
	})

	mon.Init(ctx)
	go mon.Start(ctx)

	// Sync anything queued from previous sessions if we came up online.
	if mon.Status().Online {
		go reconciliation.FlushUnsynced(ctx)
	}

	log.Info("Connectivity monitor started")

	return &SyncWorkerHandle{cancel: cancel}, nil
}
