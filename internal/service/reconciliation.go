package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sheikhAI44/flapppybirdd/internal/domain"
	"github.com/sheikhAI44/flapppybirdd/internal/errors"
	"github.com/sheikhAI44/flapppybirdd/internal/id"
	"github.com/sheikhAI44/flapppybirdd/internal/monitor"
	"github.com/sheikhAI44/flapppybirdd/internal/store"
	"github.com/sheikhAI44/flapppybirdd/internal/validation"
)

// Player-facing status messages.
const (
	msgSynced       = "Score synced to online leaderboard!"
	msgSavedLocally = "Score saved locally, will sync when online"
	msgOffline      = "Playing offline - scores saved locally"
)

// RemoteClient is the remote store surface the engine needs. Nil when the
// backend is not configured.
type RemoteClient interface {
	Insert(ctx context.Context, email string, score int) (*domain.ScoreRecord, error)
	Query(ctx context.Context, limit int) ([]domain.ScoreRecord, error)
}

// submission is the validated shape of a score submission.
type submission struct {
	Email string `json:"email" validate:"required,email"`
	Score int    `json:"score" validate:"gte=0,lte=10000"`
}

// ReconciliationService is the single write entry point for scores. It
// persists locally before any network attempt and decides, per submission,
// whether the remote store participates.
type ReconciliationService struct {
	store     *store.Store
	remote    RemoteClient
	monitor   *monitor.Monitor
	validator *validation.Validator
	logger    *slog.Logger
}

// NewReconciliationService creates a new reconciliation service. remote may
// be nil when the backend is unconfigured.
func NewReconciliationService(st *store.Store, remote RemoteClient, mon *monitor.Monitor, v *validation.Validator, logger *slog.Logger) *ReconciliationService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ReconciliationService{
		store:     st,
		remote:    remote,
		monitor:   mon,
		validator: v,
		logger:    logger,
	}
}

// SubmitScore records a score. Local persistence always happens first and
// unconditionally: the local record is the system of record if remote
// submission never succeeds. Every code path resolves to a result value;
// an unhandled fault must not lose a score.
func (s *ReconciliationService) SubmitScore(ctx context.Context, email string, score int) (result *domain.SubmitResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("submission fault, score kept locally", "panic", r)
			result = &domain.SubmitResult{
				Success:     true,
				OfflineMode: true,
				Message:     msgSavedLocally,
				Error:       fmt.Sprint(r),
				LocalRank:   s.store.Rank(email, score),
			}
		}
	}()

	s.saveLocally(email, score)

	// The local copy above is the record of the attempt; out-of-bounds or
	// malformed submissions never reach the remote boundary.
	if err := s.validator.Validate(submission{Email: email, Score: score}); err != nil {
		return &domain.SubmitResult{
			Success: false,
			Message: err.Error(),
			Error:   err.Error(),
		}
	}

	status := s.monitor.Status()
	if !status.Online || s.remote == nil {
		return &domain.SubmitResult{
			Success:     true,
			OfflineMode: true,
			Message:     msgOffline,
			LocalRank:   s.store.Rank(email, score),
		}
	}

	_, err := s.remote.Insert(ctx, email, score)
	if err == nil {
		s.store.MarkSynced(email, score)
		return &domain.SubmitResult{
			Success: true,
			Message: msgSynced,
		}
	}

	switch errors.CodeOf(err) {
	case errors.CodeValidation, errors.CodeRateLimited:
		// Caller-fixable or caller-must-wait; surfaced verbatim, never a
		// silent fallback.
		return &domain.SubmitResult{
			Success: false,
			Message: err.Error(),
			Error:   err.Error(),
		}
	case errors.CodeSchemaMissing:
		s.monitor.MarkSchemaMissing()
	case errors.CodeNetwork:
		s.monitor.NetworkDown()
	}

	// Schema-missing, network, duplicate, unknown: the local copy stands
	// in and a later flush retries.
	s.logger.Warn("remote submission failed, score kept locally", "error", err)
	return &domain.SubmitResult{
		Success:     true,
		OfflineMode: true,
		Message:     msgSavedLocally,
		Error:       err.Error(),
		LocalRank:   s.store.Rank(email, score),
	}
}

// saveLocally persists the submission and remembers the identifier for
// leaderboard highlighting.
func (s *ReconciliationService) saveLocally(email string, score int) {
	recordID, err := id.NewLocal()
	if err != nil {
		// Entropy exhaustion is effectively theoretical; a timestamp-only
		// ID keeps the record usable.
		recordID = fmt.Sprintf("local-%d", time.Now().UnixMilli())
	}
	s.store.Save(*domain.NewScoreRecord(recordID, email, score))
	s.store.SetLastEmail(email)
	s.logger.Debug("score saved locally", "score", score)
}

// FlushUnsynced submits queued local records to the remote store, one at a
// time to respect rate limiting. Records that fail stay unsynced for the
// next flush; partial success is expected and not an error. Returns how
// many synced out of how many were attempted.
func (s *ReconciliationService) FlushUnsynced(ctx context.Context) (synced, attempted int) {
	if s.remote == nil {
		return 0, 0
	}

	pending := s.store.Unsynced()
	if len(pending) == 0 {
		return 0, 0
	}

	s.logger.Info("syncing offline scores", "count", len(pending))

	for _, rec := range pending {
		if ctx.Err() != nil {
			break
		}
		attempted++

		_, err := s.remote.Insert(ctx, rec.Email, rec.Score)
		switch {
		case err == nil:
			s.store.MarkSynced(rec.Email, rec.Score)
			synced++
		case errors.CodeOf(err) == errors.CodeDuplicate:
			// Already recorded remotely; nothing left to sync.
			s.store.MarkSynced(rec.Email, rec.Score)
			synced++
		default:
			if errors.CodeOf(err) == errors.CodeNetwork {
				s.monitor.NetworkDown()
			}
			s.logger.Warn("failed to sync score, will retry later",
				"score", rec.Score,
				"error", err,
			)
		}
	}

	s.logger.Info("offline score sync finished", "synced", synced, "attempted", attempted)
	return synced, attempted
}
