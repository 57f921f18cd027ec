package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sheikhAI44/flapppybirdd/internal/domain"
)

func (s *Server) registerScoreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "submitScore",
		Method:      http.MethodPost,
		Path:        "/api/v1/scores",
		Summary:     "Submit a score",
		Description: "Persists the score locally and submits it to the online leaderboard when available",
		Tags:        []string{"Scores"},
	}, s.handleSubmitScore)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLeaderboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/leaderboard",
		Summary:     "Get the leaderboard",
		Description: "Returns the ranked top scores from the online leaderboard, or the local scores when offline",
		Tags:        []string{"Scores"},
	}, s.handleGetLeaderboard)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSetupStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/status",
		Summary:     "Get connectivity status",
		Description: "Reports whether the online leaderboard backend is reachable and its schema provisioned",
		Tags:        []string{"Status"},
	}, s.handleGetStatus)
}

// === DTOs ===

// SubmitScoreRequest is the request body for a score submission.
type SubmitScoreRequest struct {
	Email string `json:"email" doc:"Player email, used masked on the leaderboard"`
	Score int    `json:"score" minimum:"0" doc:"Final score of the round"`
}

// SubmitScoreInput is the Huma input for submitting a score.
type SubmitScoreInput struct {
	Body SubmitScoreRequest
}

// SubmitScoreOutput is the Huma output wrapper for a submission result.
//
// The body always carries the full result; success=false with an error
// string means the caller must correct input or back off, never that the
// score was lost (it is saved locally regardless).
type SubmitScoreOutput struct {
	Body domain.SubmitResult
}

// GetLeaderboardInput is the Huma input for fetching the leaderboard.
type GetLeaderboardInput struct {
	Limit int `query:"limit" default:"10" minimum:"1" maximum:"100" doc:"Maximum number of entries"`
}

// GetLeaderboardOutput is the Huma output wrapper for the leaderboard.
type GetLeaderboardOutput struct {
	Body domain.LeaderboardResult
}

// GetStatusInput is the Huma input for the status query.
type GetStatusInput struct{}

// GetStatusOutput is the Huma output wrapper for the connectivity status.
type GetStatusOutput struct {
	Body domain.SetupStatus
}

// === Handlers ===

func (s *Server) handleSubmitScore(ctx context.Context, input *SubmitScoreInput) (*SubmitScoreOutput, error) {
	result := s.reconciliation.SubmitScore(ctx, input.Body.Email, input.Body.Score)
	return &SubmitScoreOutput{Body: *result}, nil
}

func (s *Server) handleGetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	result := s.leaderboard.GetLeaderboard(ctx, input.Limit)
	return &GetLeaderboardOutput{Body: *result}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *GetStatusInput) (*GetStatusOutput, error) {
	return &GetStatusOutput{Body: s.leaderboard.GetSetupStatus()}, nil
}
