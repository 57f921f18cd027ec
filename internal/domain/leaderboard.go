package domain

import (
	"strings"
	"time"
)

// LeaderboardEntry is the display view of a ScoreRecord. It is derived at
// read time and never persisted.
type LeaderboardEntry struct {
	Rank            int       `json:"rank"`
	MaskedEmail     string    `json:"masked_email"`
	Score           int       `json:"score"`
	CreatedAt       time.Time `json:"created_at"`
	IsCurrentPlayer bool      `json:"is_current_player"`
}

// EntryFromRecord builds a display entry from a record. Masking is applied
// exactly once, here, from the raw email.
func EntryFromRecord(r ScoreRecord, rank int, currentEmail string) LeaderboardEntry {
	return LeaderboardEntry{
		Rank:            rank,
		MaskedEmail:     MaskEmail(r.Email),
		Score:           r.Score,
		CreatedAt:       r.CreatedAt,
		IsCurrentPlayer: currentEmail != "" && r.Email == currentEmail,
	}
}

// MaskEmail partially redacts an email for display: the first character of
// the local part followed by up to three asterisks, domain unchanged
// ("jane@example.com" -> "j***@example.com").
//
// Strings without an '@' or with an empty local part pass through unmasked
// as a degraded fallback rather than erroring.
func MaskEmail(email string) string {
	local, dom, ok := strings.Cut(email, "@")
	if !ok || local == "" || dom == "" {
		return email
	}
	masked := min(len(local)-1, 3)
	return local[:1] + strings.Repeat("*", masked) + "@" + dom
}
