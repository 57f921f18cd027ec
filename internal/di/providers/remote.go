package providers

import (
	"github.com/samber/do/v2"

	"github.com/sheikhAI44/flapppybirdd/internal/config"
	"github.com/sheikhAI44/flapppybirdd/internal/logger"
	"github.com/sheikhAI44/flapppybirdd/internal/monitor"
	"github.com/sheikhAI44/flapppybirdd/internal/remote"
)

// RemoteHandle carries the remote client, or the configuration error that
// prevented its construction. A missing or misconfigured backend is not
// fatal: the game runs offline for the session.
type RemoteHandle struct {
	Client    *remote.Client
	ConfigErr error
}

// ProvideRemoteClient provides the Supabase client. Configuration failures
// are recorded, not returned, so bootstrap proceeds offline.
func ProvideRemoteClient(i do.Injector) (*RemoteHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client, err := remote.New(remote.Config{
		URL:               cfg.Supabase.URL,
		AnonKey:           cfg.Supabase.AnonKey,
		Table:             cfg.Supabase.Table,
		RequestsPerSecond: cfg.Supabase.RequestsPerSecond,
		Burst:             cfg.Supabase.Burst,
	}, log.Logger)
	if err != nil {
		log.Warn("Remote leaderboard disabled for this session", "error", err)
		return &RemoteHandle{ConfigErr: err}, nil
	}

	log.Info("Remote leaderboard client ready", "table", client.Table())
	return &RemoteHandle{Client: client}, nil
}

// ProvideMonitor provides the connectivity monitor.
func ProvideMonitor(i do.Injector) (*monitor.Monitor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	remoteHandle := do.MustInvoke[*RemoteHandle](i)

	var prober monitor.Prober
	if remoteHandle.Client != nil {
		prober = remoteHandle.Client
	}

	return monitor.New(prober, remoteHandle.ConfigErr, monitor.Config{
		ProbeInterval:   cfg.Supabase.ProbeInterval,
		QualityInterval: cfg.Supabase.QualityInterval,
		ReconnectDelay:  cfg.Supabase.ReconnectDelay,
	}, log.Logger), nil
}
