package domain

// ConnectionQuality is an advisory classification of remote round-trip
// latency. It never gates submission.
type ConnectionQuality string

// Connection quality values.
const (
	QualityUnknown ConnectionQuality = "unknown"
	QualityGood    ConnectionQuality = "good"
	QualityPoor    ConnectionQuality = "poor"
)

// SetupStatus is the derived connectivity view. It is recomputed from the
// monitor's underlying booleans on every query, never cached.
type SetupStatus struct {
	Ready         bool              `json:"ready"`
	Online        bool              `json:"online"`
	OfflineMode   bool              `json:"offline_mode"`
	SchemaPresent bool              `json:"schema_present"`
	Quality       ConnectionQuality `json:"connection_quality"`
	Error         string            `json:"error,omitempty"`
}

// SubmitResult is the outcome of a score submission. Every code path of the
// reconciliation engine resolves to one of these; submission never raises
// past its boundary because losing a score on an unhandled fault is
// unacceptable.
type SubmitResult struct {
	Success     bool   `json:"success"`
	OfflineMode bool   `json:"offline_mode"`
	Message     string `json:"message"`
	Error       string `json:"error,omitempty"`
	LocalRank   int    `json:"local_rank,omitempty"`
}

// LeaderboardResult is the outcome of a leaderboard query.
type LeaderboardResult struct {
	Success bool               `json:"success"`
	Online  bool               `json:"online"`
	Entries []LeaderboardEntry `json:"data"`
}

// LocalStats summarizes the local score store for diagnostics.
type LocalStats struct {
	TotalScores  int `json:"total_scores"`
	HighestScore int `json:"highest_score"`
	LowestScore  int `json:"lowest_score"`
	AverageScore int `json:"average_score"`
	UniqueEmails int `json:"unique_emails"`
	Synced       int `json:"synced"`
	Unsynced     int `json:"unsynced"`
}
