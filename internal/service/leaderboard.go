package service

import (
	"context"
	"log/slog"

	"github.com/sheikhAI44/flapppybirdd/internal/domain"
	"github.com/sheikhAI44/flapppybirdd/internal/errors"
	"github.com/sheikhAI44/flapppybirdd/internal/monitor"
	"github.com/sheikhAI44/flapppybirdd/internal/store"
)

// Leaderboard query limits.
const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// LeaderboardService assembles the ranked, masked leaderboard view from
// whichever source is currently available.
type LeaderboardService struct {
	store   *store.Store
	remote  RemoteClient
	monitor *monitor.Monitor
	logger  *slog.Logger
}

// NewLeaderboardService creates a new leaderboard service. remote may be
// nil when the backend is unconfigured.
func NewLeaderboardService(st *store.Store, remote RemoteClient, mon *monitor.Monitor, logger *slog.Logger) *LeaderboardService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LeaderboardService{
		store:   st,
		remote:  remote,
		monitor: mon,
		logger:  logger,
	}
}

// GetLeaderboard returns the top limit entries. The remote store is used
// while online; any remote failure falls back to the local view
// transparently, because the leaderboard must never hard-fail.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, limit int) *domain.LeaderboardResult {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	limit = min(limit, maxLeaderboardLimit)

	status := s.monitor.Status()
	if !status.Online || s.remote == nil {
		return s.localLeaderboard(limit)
	}

	rows, err := s.remote.Query(ctx, limit)
	if err != nil {
		switch errors.CodeOf(err) {
		case errors.CodeSchemaMissing:
			s.monitor.MarkSchemaMissing()
		case errors.CodeNetwork:
			s.monitor.NetworkDown()
		}
		s.logger.Warn("remote leaderboard unavailable, using local scores", "error", err)
		return s.localLeaderboard(limit)
	}

	return &domain.LeaderboardResult{
		Success: true,
		Online:  true,
		Entries: s.assemble(rows, limit),
	}
}

// localLeaderboard builds the view from the local score store.
func (s *LeaderboardService) localLeaderboard(limit int) *domain.LeaderboardResult {
	return &domain.LeaderboardResult{
		Success: true,
		Online:  false,
		Entries: s.assemble(s.store.All(), limit),
	}
}

// assemble ranks, masks, and flags records for display. An empty input
// yields an empty (non-nil) entry list; no scores is a valid leaderboard.
func (s *LeaderboardService) assemble(records []domain.ScoreRecord, limit int) []domain.LeaderboardEntry {
	if len(records) > limit {
		records = records[:limit]
	}

	currentEmail := s.store.LastEmail()
	entries := make([]domain.LeaderboardEntry, 0, len(records))
	for i, rec := range records {
		entries = append(entries, domain.EntryFromRecord(rec, i+1, currentEmail))
	}
	return entries
}

// GetSetupStatus exposes the connectivity view for the UI status line.
func (s *LeaderboardService) GetSetupStatus() domain.SetupStatus {
	return s.monitor.Status()
}

// LocalStats summarizes the local score store.
func (s *LeaderboardService) LocalStats() domain.LocalStats {
	return s.store.Stats()
}

// ClearLocal empties the local score store and reports whether anything was
// removed. Maintenance operation; the remote table is append-only and
// untouched.
func (s *LeaderboardService) ClearLocal() bool {
	return s.store.Clear()
}

// LastEmail returns the last identifier used for submission in this
// session, for pre-filling the submission form.
func (s *LeaderboardService) LastEmail() string {
	return s.store.LastEmail()
}
