package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhAI44/flapppybirdd/internal/domain"
	"github.com/sheikhAI44/flapppybirdd/internal/errors"
	"github.com/sheikhAI44/flapppybirdd/internal/monitor"
	"github.com/sheikhAI44/flapppybirdd/internal/store"
	"github.com/sheikhAI44/flapppybirdd/internal/validation"
)

// fakeRemote scripts remote behavior per call.
type fakeRemote struct {
	insertErrs []error // consumed in order; nil entry means success
	insertCall int
	queryRows  []domain.ScoreRecord
	queryErr   error
}

func (f *fakeRemote) Insert(_ context.Context, email string, score int) (*domain.ScoreRecord, error) {
	var err error
	if f.insertCall < len(f.insertErrs) {
		err = f.insertErrs[f.insertCall]
	}
	f.insertCall++
	if err != nil {
		return nil, err
	}
	return &domain.ScoreRecord{
		ID:        "server-id",
		Email:     email,
		Score:     score,
		CreatedAt: time.Now().UTC(),
		Synced:    true,
	}, nil
}

func (f *fakeRemote) Query(_ context.Context, _ int) ([]domain.ScoreRecord, error) {
	return f.queryRows, f.queryErr
}

// panicRemote simulates an unexpected fault past the local save.
type panicRemote struct{}

func (panicRemote) Insert(context.Context, string, int) (*domain.ScoreRecord, error) {
	panic("remote exploded")
}

func (panicRemote) Query(context.Context, int) ([]domain.ScoreRecord, error) {
	panic("remote exploded")
}

// okProber always reports a reachable backend with the schema present.
type okProber struct{}

func (okProber) Probe(context.Context) (time.Duration, error) {
	return 10 * time.Millisecond, nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// onlineMonitor returns a monitor that has completed a successful probe.
func onlineMonitor(t *testing.T) *monitor.Monitor {
	t.Helper()
	m := monitor.New(okProber{}, nil, monitor.Config{}, nil)
	m.Init(context.Background())
	require.True(t, m.Status().Online)
	return m
}

// offlineMonitor returns a monitor for an unconfigured backend.
func offlineMonitor(t *testing.T) *monitor.Monitor {
	t.Helper()
	m := monitor.New(nil, errors.Configuration("not configured"), monitor.Config{}, nil)
	m.Init(context.Background())
	return m
}

func TestSubmitScore_OfflineSavesLocally(t *testing.T) {
	st := newTestStore(t)
	svc := NewReconciliationService(st, nil, offlineMonitor(t), validation.New(), nil)

	result := svc.SubmitScore(context.Background(), "jane@example.com", 42)

	assert.True(t, result.Success)
	assert.True(t, result.OfflineMode)
	assert.Equal(t, msgOffline, result.Message)
	assert.Equal(t, 1, result.LocalRank)
	assert.Empty(t, result.Error)

	all := st.All()
	require.Len(t, all, 1)
	assert.Equal(t, 42, all[0].Score)
	assert.False(t, all[0].Synced)
	assert.Equal(t, "jane@example.com", st.LastEmail())
}

func TestSubmitScore_ValidationFailureStillSavedLocally(t *testing.T) {
	st := newTestStore(t)
	svc := NewReconciliationService(st, nil, offlineMonitor(t), validation.New(), nil)

	result := svc.SubmitScore(context.Background(), "jane@example.com", 15000)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)

	// The attempt is still recorded locally; only remote submission is
	// gated on validity.
	require.Len(t, st.All(), 1)
	assert.Equal(t, 15000, st.All()[0].Score)
}

func TestSubmitScore_BadEmailRejected(t *testing.T) {
	st := newTestStore(t)
	remote := &fakeRemote{}
	svc := NewReconciliationService(st, remote, onlineMonitor(t), validation.New(), nil)

	result := svc.SubmitScore(context.Background(), "not-an-email", 10)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	// Invalid input never reaches the remote boundary.
	assert.Zero(t, remote.insertCall)
}

func TestSubmitScore_OnlineSyncs(t *testing.T) {
	st := newTestStore(t)
	remote := &fakeRemote{}
	svc := NewReconciliationService(st, remote, onlineMonitor(t), validation.New(), nil)

	result := svc.SubmitScore(context.Background(), "jane@example.com", 42)

	assert.True(t, result.Success)
	assert.False(t, result.OfflineMode)
	assert.Equal(t, msgSynced, result.Message)
	assert.Equal(t, 1, remote.insertCall)

	all := st.All()
	require.Len(t, all, 1)
	assert.True(t, all[0].Synced)
}

func TestSubmitScore_RateLimitedSurfaced(t *testing.T) {
	st := newTestStore(t)
	remote := &fakeRemote{insertErrs: []error{errors.RateLimited("too many submissions")}}
	svc := NewReconciliationService(st, remote, onlineMonitor(t), validation.New(), nil)

	result := svc.SubmitScore(context.Background(), "jane@example.com", 42)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "too many submissions")
	// The score stays locally regardless, still unsynced.
	require.Len(t, st.Unsynced(), 1)
}

func TestSubmitScore_SchemaMissingDegradesToOffline(t *testing.T) {
	st := newTestStore(t)
	remote := &fakeRemote{insertErrs: []error{errors.SchemaMissing("scores table does not exist")}}
	mon := onlineMonitor(t)
	svc := NewReconciliationService(st, remote, mon, validation.New(), nil)

	result := svc.SubmitScore(context.Background(), "jane@example.com", 42)

	assert.True(t, result.Success)
	assert.True(t, result.OfflineMode)
	assert.Equal(t, msgSavedLocally, result.Message)
	assert.NotEmpty(t, result.Error)
	assert.Equal(t, 1, result.LocalRank)

	// The failed insert flips the connectivity view for later requests.
	status := mon.Status()
	assert.False(t, status.Online)
	assert.False(t, status.SchemaPresent)
}

func TestSubmitScore_NetworkFailureDegradesToOffline(t *testing.T) {
	st := newTestStore(t)
	remote := &fakeRemote{insertErrs: []error{errors.Network("connection reset")}}
	mon := onlineMonitor(t)
	svc := NewReconciliationService(st, remote, mon, validation.New(), nil)

	result := svc.SubmitScore(context.Background(), "jane@example.com", 42)

	assert.True(t, result.Success)
	assert.True(t, result.OfflineMode)
	assert.Equal(t, msgSavedLocally, result.Message)
	require.Len(t, st.Unsynced(), 1)

	// The transport failure is reported, so later submissions skip the
	// remote attempt until a probe restores connectivity.
	assert.False(t, mon.Status().Online)
}

func TestSubmitScore_PanicKeepsScore(t *testing.T) {
	st := newTestStore(t)
	svc := NewReconciliationService(st, panicRemote{}, onlineMonitor(t), validation.New(), nil)

	result := svc.SubmitScore(context.Background(), "jane@example.com", 42)

	assert.True(t, result.Success)
	assert.True(t, result.OfflineMode)
	assert.NotEmpty(t, result.Error)
	require.Len(t, st.All(), 1)
}

func TestFlushUnsynced_PartialSuccess(t *testing.T) {
	st := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st.Save(domain.ScoreRecord{ID: "a", Email: "jane@example.com", Score: 90, CreatedAt: base})
	st.Save(domain.ScoreRecord{ID: "b", Email: "john@example.com", Score: 50, CreatedAt: base})

	remote := &fakeRemote{insertErrs: []error{nil, errors.Network("connection reset")}}
	mon := onlineMonitor(t)
	svc := NewReconciliationService(st, remote, mon, validation.New(), nil)

	synced, attempted := svc.FlushUnsynced(context.Background())

	assert.Equal(t, 1, synced)
	assert.Equal(t, 2, attempted)

	// The failed record stays queued for the next flush, and the network
	// failure flips the connectivity view.
	unsynced := st.Unsynced()
	require.Len(t, unsynced, 1)
	assert.Equal(t, "b", unsynced[0].ID)
	assert.False(t, mon.Status().Online)
}

func TestFlushUnsynced_DuplicateCountsAsSynced(t *testing.T) {
	st := newTestStore(t)
	st.Save(domain.ScoreRecord{ID: "a", Email: "jane@example.com", Score: 90, CreatedAt: time.Now().UTC()})

	remote := &fakeRemote{insertErrs: []error{errors.Duplicate("already recorded")}}
	svc := NewReconciliationService(st, remote, onlineMonitor(t), validation.New(), nil)

	synced, attempted := svc.FlushUnsynced(context.Background())

	assert.Equal(t, 1, synced)
	assert.Equal(t, 1, attempted)
	assert.Empty(t, st.Unsynced())
}

func TestFlushUnsynced_NothingPending(t *testing.T) {
	st := newTestStore(t)
	remote := &fakeRemote{}
	svc := NewReconciliationService(st, remote, onlineMonitor(t), validation.New(), nil)

	synced, attempted := svc.FlushUnsynced(context.Background())

	assert.Zero(t, synced)
	assert.Zero(t, attempted)
	assert.Zero(t, remote.insertCall)
}

func TestFlushUnsynced_NilRemote(t *testing.T) {
	st := newTestStore(t)
	st.Save(domain.ScoreRecord{ID: "a", Email: "jane@example.com", Score: 90, CreatedAt: time.Now().UTC()})
	svc := NewReconciliationService(st, nil, offlineMonitor(t), validation.New(), nil)

	synced, attempted := svc.FlushUnsynced(context.Background())

	assert.Zero(t, synced)
	assert.Zero(t, attempted)
}

func TestFlushUnsynced_StopsOnCanceledContext(t *testing.T) {
	st := newTestStore(t)
	st.Save(domain.ScoreRecord{ID: "a", Email: "jane@example.com", Score: 90, CreatedAt: time.Now().UTC()})

	remote := &fakeRemote{}
	svc := NewReconciliationService(st, remote, onlineMonitor(t), validation.New(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	synced, attempted := svc.FlushUnsynced(ctx)

	assert.Zero(t, synced)
	assert.Zero(t, attempted)
	assert.Zero(t, remote.insertCall)
}
