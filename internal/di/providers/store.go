package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/sheikhAI44/flapppybirdd/internal/config"
	"github.com/sheikhAI44/flapppybirdd/internal/logger"
	"github.com/sheikhAI44/flapppybirdd/internal/store"
)

// StoreHandle wraps the local score store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the local score store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Store.DataPath, "scores")
	db, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Local score store opened", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}
