// Package monitor tracks whether the remote leaderboard backend is reachable
// and whether its required schema exists.
//
// The derived status is always recomputed from the underlying booleans
// (attempted, client-reachable, schema-present, network-up); it is never
// cached across queries.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sheikhAI44/flapppybirdd/internal/domain"
	"github.com/sheikhAI44/flapppybirdd/internal/errors"
)

// qualityThreshold splits round-trip latency into good and poor. Purely
// advisory; quality never gates submission.
const qualityThreshold = time.Second

// Prober is the minimal read used to check reachability and schema
// presence. Implemented by the remote client.
type Prober interface {
	Probe(ctx context.Context) (time.Duration, error)
}

// Config holds the monitor timings.
type Config struct {
	// ProbeInterval re-runs the schema probe while offline with the
	// schema absent, to detect out-of-band provisioning.
	ProbeInterval time.Duration
	// QualityInterval samples round-trip latency while online.
	QualityInterval time.Duration
	// ReconnectDelay debounces the probe after a network-restored signal.
	ReconnectDelay time.Duration
}

// Monitor owns the connectivity state. A nil prober means remote
// configuration failed; that is terminal for the session and never retried.
type Monitor struct {
	prober    Prober
	configErr error
	cfg       Config
	logger    *slog.Logger

	mu              sync.Mutex
	attempted       bool
	clientReachable bool
	schemaPresent   bool
	networkUp       bool
	quality         domain.ConnectionQuality
	lastErr         string
	reconnectTimer  *time.Timer

	onOnline func()

	instructionsOnce sync.Once
}

// New creates a monitor. prober is nil when the remote client could not be
// constructed; configErr then explains why.
func New(prober Prober, configErr error, cfg Config, logger *slog.Logger) *Monitor {
	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = 30 * time.Second
	}
	if cfg.QualityInterval <= 0 {
		cfg.QualityInterval = 30 * time.Second
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Monitor{
		prober:    prober,
		configErr: configErr,
		cfg:       cfg,
		logger:    logger,
		networkUp: true,
		quality:   domain.QualityUnknown,
	}
}

// SetOnOnline registers the callback fired when connectivity is restored
// after having been offline. The reconciliation engine hooks its flush
// here. Must be called before Init.
func (m *Monitor) SetOnOnline(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onOnline = fn
}

// Init performs the first connection attempt and records the outcome.
func (m *Monitor) Init(ctx context.Context) {
	m.mu.Lock()
	if m.prober == nil {
		m.attempted = true
		m.clientReachable = false
		if m.configErr != nil {
			m.lastErr = m.configErr.Error()
		}
		m.mu.Unlock()
		m.logger.Warn("remote leaderboard unavailable, running offline", "error", m.lastErr)
		return
	}
	m.mu.Unlock()

	m.probe(ctx, false)

	m.mu.Lock()
	m.attempted = true
	online := m.clientReachable && m.schemaPresent
	m.mu.Unlock()

	if online {
		m.logger.Info("online leaderboard active")
	} else {
		m.logger.Info("running in offline mode", "error", m.lastErr)
	}
}

// probe runs one schema probe, judging the offline-to-online transition
// against the state at call time.
func (m *Monitor) probe(ctx context.Context, fireCallback bool) {
	m.mu.Lock()
	wasOnline := m.online()
	m.mu.Unlock()

	m.probeFrom(ctx, fireCallback, wasOnline)
}

// probeFrom runs one schema probe and updates the booleans. wasOnline is
// the state the transition is judged against; the reconnect path captures
// it before flipping networkUp, so the flip cannot mask the transition.
// When fireCallback is set and the probe moves the monitor from offline to
// online, the onOnline callback runs.
func (m *Monitor) probeFrom(ctx context.Context, fireCallback, wasOnline bool) {
	rtt, err := m.prober.Probe(ctx)

	m.mu.Lock()
	switch {
	case err == nil:
		m.clientReachable = true
		m.schemaPresent = true
		m.networkUp = true
		m.quality = classifyLatency(rtt)
	case errors.CodeOf(err) == errors.CodeSchemaMissing:
		// The backend answered, so the network path itself is fine.
		m.clientReachable = true
		m.networkUp = true
		m.schemaPresent = false
		m.lastErr = err.Error()
	default:
		m.clientReachable = false
		m.lastErr = err.Error()
	}

	nowOnline := m.online()
	callback := m.onOnline
	m.mu.Unlock()

	if err != nil && errors.CodeOf(err) == errors.CodeSchemaMissing {
		m.logProvisioningInstructions()
	}

	if fireCallback && !wasOnline && nowOnline && callback != nil {
		m.logger.Info("connectivity restored")
		callback()
	}
}

// online reports the derived online state. Caller must hold mu.
func (m *Monitor) online() bool {
	return m.clientReachable && m.schemaPresent && m.networkUp
}

// Status recomputes the derived connectivity view.
func (m *Monitor) Status() domain.SetupStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.attempted {
		return domain.SetupStatus{
			Ready:   false,
			Quality: m.quality,
			Error:   "still initializing connection to the leaderboard backend",
		}
	}

	online := m.online()
	status := domain.SetupStatus{
		Ready:         true,
		Online:        online,
		OfflineMode:   !online,
		SchemaPresent: m.schemaPresent,
		Quality:       m.quality,
	}
	if !online {
		status.Error = m.offlineReason()
	}
	return status
}

// offlineReason explains the current offline state. Caller must hold mu.
func (m *Monitor) offlineReason() string {
	switch {
	case m.prober == nil:
		if m.lastErr != "" {
			return m.lastErr
		}
		return "remote backend not configured"
	case !m.networkUp:
		return "network connection lost"
	case !m.clientReachable:
		if m.lastErr != "" {
			return m.lastErr
		}
		return "could not connect to the leaderboard backend"
	case !m.schemaPresent:
		return "the scores table does not exist in the remote database"
	default:
		return ""
	}
}

// MarkSchemaMissing flips schema-present off. The reconciliation engine
// calls this when a remote insert reports the table absent.
func (m *Monitor) MarkSchemaMissing() {
	m.mu.Lock()
	m.schemaPresent = false
	m.mu.Unlock()
	m.logProvisioningInstructions()
}

// NetworkDown records a network-lost signal. The flip is immediate; no
// probe round-trip is awaited. Callers report it freely on every
// NETWORK-classified failure; repeated signals are no-ops.
func (m *Monitor) NetworkDown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.networkUp {
		return
	}
	m.networkUp = false
	m.quality = domain.QualityUnknown
	m.logger.Info("network connection lost, switching to offline mode")
}

// NetworkUp records a network-restored signal. The schema probe re-runs
// once after a short delay; down/up flickers reset the timer, and
// redundant signals while already up are ignored. The probe is judged
// against the offline state at signal time, captured before the flip.
func (m *Monitor) NetworkUp() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.networkUp {
		return
	}
	m.networkUp = true
	if m.prober == nil {
		return
	}

	if m.reconnectTimer != nil {
		m.reconnectTimer.Stop()
	}
	m.reconnectTimer = time.AfterFunc(m.cfg.ReconnectDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
		defer cancel()
		m.probeFrom(ctx, true, false)
	})
}

const defaultProbeTimeout = 10 * time.Second

// Start runs the periodic probes until ctx is canceled:
//   - the recovery probe, only while offline for any recoverable reason
//     (schema absent, network lost, backend unreachable), so out-of-band
//     provisioning or a restored connection is picked up without a restart
//   - the quality sampler, only while online; a failed sample flips the
//     monitor offline, so an outage with no traffic is still detected
//
// Coming back online through either probe fires the onOnline callback.
func (m *Monitor) Start(ctx context.Context) {
	if m.prober == nil {
		return
	}

	probeTicker := time.NewTicker(m.cfg.ProbeInterval)
	qualityTicker := time.NewTicker(m.cfg.QualityInterval)
	defer probeTicker.Stop()
	defer qualityTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-probeTicker.C:
			m.mu.Lock()
			due := m.attempted && !m.online()
			m.mu.Unlock()
			if due {
				m.probe(ctx, true)
			}
		case <-qualityTicker.C:
			m.sampleQuality(ctx)
		}
	}
}

// sampleQuality times a cheap read while online. A failed sample is a
// connectivity signal, not just a quality one, so the shared probe path
// handles the outcome either way.
func (m *Monitor) sampleQuality(ctx context.Context) {
	m.mu.Lock()
	online := m.online()
	m.mu.Unlock()
	if !online {
		return
	}

	m.probe(ctx, true)
}

// classifyLatency maps a round-trip time to a quality bucket.
func classifyLatency(rtt time.Duration) domain.ConnectionQuality {
	if rtt < qualityThreshold {
		return domain.QualityGood
	}
	return domain.QualityPoor
}

// logProvisioningInstructions prints the one-time setup guidance for the
// missing table. Schema creation is an administrative action; the anon
// client cannot run DDL, so the instructions are the whole remedy.
func (m *Monitor) logProvisioningInstructions() {
	m.instructionsOnce.Do(func() {
		m.logger.Warn("the scores table does not exist in your Supabase project; " +
			"create it from the SQL editor and the game will pick it up automatically")
		m.logger.Warn("setup SQL: create table scores (" +
			"id uuid primary key default gen_random_uuid(), " +
			"email text not null, " +
			"score integer not null check (score >= 0 and score <= 10000), " +
			"created_at timestamptz not null default now())")
	})
}
