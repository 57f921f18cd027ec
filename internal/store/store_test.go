package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhAI44/flapppybirdd/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func record(id string, score int, created time.Time) domain.ScoreRecord {
	return domain.ScoreRecord{
		ID:        id,
		Email:     "jane@example.com",
		Score:     score,
		CreatedAt: created,
	}
}

func TestSave_KeepsLeaderboardOrder(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.Save(record("low", 10, base))
	s.Save(record("high", 90, base.Add(time.Minute)))
	s.Save(record("mid", 50, base.Add(2*time.Minute)))

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "high", all[0].ID)
	assert.Equal(t, "mid", all[1].ID)
	assert.Equal(t, "low", all[2].ID)
}

func TestSave_EvictsLowestBeyondCap(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Fill to the cap, then add one more with a higher score than the
	// current minimum. The lowest score goes, regardless of age.
	for i := range domain.MaxLocalScores {
		s.Save(record(fmt.Sprintf("r%d", i), i+1, base.Add(time.Duration(i)*time.Second)))
	}
	require.Len(t, s.All(), domain.MaxLocalScores)

	s.Save(record("newcomer", 500, base.Add(time.Hour)))

	all := s.All()
	require.Len(t, all, domain.MaxLocalScores)
	assert.Equal(t, "newcomer", all[0].ID)
	// The score-1 record was the lowest and is gone; score 2 survives.
	assert.Equal(t, 2, all[len(all)-1].Score)
}

func TestSave_LowScoreBeyondFullCapIsDropped(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := range domain.MaxLocalScores {
		s.Save(record(fmt.Sprintf("r%d", i), 100+i, base))
	}

	s.Save(record("too-low", 1, base))

	all := s.All()
	require.Len(t, all, domain.MaxLocalScores)
	for _, rec := range all {
		assert.NotEqual(t, "too-low", rec.ID)
	}
}

func TestPersistence_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s, err := New(dir, nil)
	require.NoError(t, err)
	s.Save(record("a", 30, base))
	s.Save(record("b", 70, base))
	s.SetLastEmail("jane@example.com")
	require.NoError(t, s.Close())

	reopened, err := New(dir, nil)
	require.NoError(t, err)
	defer reopened.Close()

	all := reopened.All()
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, "jane@example.com", reopened.LastEmail())
}

func TestMarkSynced_FirstUnsyncedMatchOnly(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Two identical submissions, both unsynced.
	s.Save(record("first", 40, base))
	s.Save(record("second", 40, base.Add(time.Minute)))

	require.True(t, s.MarkSynced("jane@example.com", 40))

	unsynced := s.Unsynced()
	require.Len(t, unsynced, 1)
	assert.Equal(t, "second", unsynced[0].ID)

	// Second call takes the remaining record; third has nothing to take.
	require.True(t, s.MarkSynced("jane@example.com", 40))
	assert.False(t, s.MarkSynced("jane@example.com", 40))
	assert.Empty(t, s.Unsynced())
}

func TestMarkSynced_NoMatch(t *testing.T) {
	s := newTestStore(t)
	s.Save(record("a", 10, time.Now().UTC()))

	assert.False(t, s.MarkSynced("other@example.com", 10))
	assert.False(t, s.MarkSynced("jane@example.com", 99))
}

func TestRank(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.Save(record("top", 90, base))
	s.Save(record("mid", 50, base))
	s.Save(record("bottom", 10, base))

	assert.Equal(t, 1, s.Rank("jane@example.com", 90))
	assert.Equal(t, 2, s.Rank("jane@example.com", 50))
	assert.Equal(t, 3, s.Rank("jane@example.com", 10))
	// No match falls back to one past the end.
	assert.Equal(t, 4, s.Rank("jane@example.com", 77))
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	assert.False(t, s.Clear())

	s.Save(record("a", 10, time.Now().UTC()))
	assert.True(t, s.Clear())
	assert.Empty(t, s.All())
	assert.False(t, s.Clear())
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.Save(domain.ScoreRecord{ID: "a", Email: "jane@example.com", Score: 10, CreatedAt: base})
	s.Save(domain.ScoreRecord{ID: "b", Email: "jane@example.com", Score: 30, CreatedAt: base, Synced: true})
	s.Save(domain.ScoreRecord{ID: "c", Email: "john@example.com", Score: 20, CreatedAt: base})

	stats := s.Stats()
	assert.Equal(t, 3, stats.TotalScores)
	assert.Equal(t, 30, stats.HighestScore)
	assert.Equal(t, 10, stats.LowestScore)
	assert.Equal(t, 20, stats.AverageScore)
	assert.Equal(t, 1, stats.Synced)
	assert.Equal(t, 2, stats.Unsynced)
	assert.Equal(t, 2, stats.UniqueEmails)
}

func TestStats_Empty(t *testing.T) {
	s := newTestStore(t)

	stats := s.Stats()
	assert.Zero(t, stats.TotalScores)
	assert.Zero(t, stats.HighestScore)
	assert.Zero(t, stats.LowestScore)
}
