package remote

import (
	"encoding/json/v2"
	"fmt"
	"net/http"
	"strings"

	"github.com/sheikhAI44/flapppybirdd/internal/errors"
)

// Postgres error codes surfaced through PostgREST responses.
const (
	pgUndefinedTable   = "42P01"
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
)

// pgError is the PostgREST error body shape.
type pgError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// classifyError maps a PostgREST failure response into the domain error
// taxonomy. Unrecognized failures keep the original message for
// diagnostics.
func classifyError(status int, body []byte) error {
	var pg pgError
	_ = json.Unmarshal(body, &pg)

	msg := strings.ToLower(pg.Message)

	switch {
	case pg.Code == pgUndefinedTable:
		return errors.SchemaMissing("scores table does not exist in the remote database")
	case pg.Code == pgUniqueViolation:
		return errors.Duplicate("this score has already been recorded")
	case pg.Code == pgNotNullViolation:
		return errors.Validation("missing required information")
	case strings.Contains(msg, "check constraint"):
		return errors.Validation("score rejected by the remote validation rules")
	case strings.Contains(msg, "policy"):
		return errors.RateLimited("too many submissions, please wait before submitting again")
	case strings.Contains(msg, "does not exist"), strings.Contains(msg, "not found"):
		return errors.SchemaMissing("scores table does not exist in the remote database")
	case status == http.StatusTooManyRequests:
		return errors.RateLimited("too many requests")
	case status == http.StatusNotFound:
		return errors.SchemaMissing("remote endpoint not found")
	}

	if pg.Message != "" {
		return errors.Unknown(pg.Message)
	}
	return errors.Unknown(fmt.Sprintf("unexpected status %d", status))
}
