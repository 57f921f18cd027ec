package domain

import (
	"cmp"
	"slices"
	"time"
)

// MaxScore is the sanity ceiling for a single round. Anything above it is
// rejected at the validation boundary and never persisted remotely.
const MaxScore = 10000

// MaxLocalScores is how many records the local store retains. After each
// insert the lowest-scoring records beyond this count are evicted.
const MaxLocalScores = 100

// ScoreRecord is one persisted or transmitted score.
//
// Locally-created records carry a client-generated ID (see internal/id);
// records returned by the remote backend carry its server-assigned UUID.
// The JSON field names match the remote table columns so the same struct
// round-trips through both the local store and the PostgREST wire format.
type ScoreRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	Synced    bool      `json:"synced,omitempty"`
}

// NewScoreRecord creates an unsynced local record with the given client ID.
// CreatedAt is set once here and never changes afterwards.
func NewScoreRecord(id, email string, score int) *ScoreRecord {
	return &ScoreRecord{
		ID:        id,
		Email:     email,
		Score:     score,
		CreatedAt: time.Now().UTC(),
		Synced:    false,
	}
}

// CompareScores orders records for the leaderboard: score descending, then
// CreatedAt ascending so the earlier submission wins ties.
func CompareScores(a, b ScoreRecord) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

// SortScores sorts records in leaderboard order in place.
func SortScores(records []ScoreRecord) {
	slices.SortStableFunc(records, CompareScores)
}
