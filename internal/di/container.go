// Package di provides dependency injection configuration for the
// leaderboard server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/sheikhAI44/flapppybirdd/internal/config"
	"github.com/sheikhAI44/flapppybirdd/internal/di/providers"
	"github.com/sheikhAI44/flapppybirdd/internal/logger"
	"github.com/sheikhAI44/flapppybirdd/internal/monitor"
	"github.com/sheikhAI44/flapppybirdd/internal/service"
	"github.com/sheikhAI44/flapppybirdd/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage and remote backend
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideRemoteClient)
	do.Provide(injector, providers.ProvideMonitor)

	// Business services
	do.Provide(injector, providers.ProvideReconciliationService)
	do.Provide(injector, providers.ProvideLeaderboardService)

	// Workers and server
	do.Provide(injector, providers.ProvideSyncWorker)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of every core service.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*validation.Validator](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.RemoteHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*monitor.Monitor](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.ReconciliationService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.LeaderboardService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SyncWorkerHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
