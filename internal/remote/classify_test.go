package remote

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheikhAI44/flapppybirdd/internal/errors"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   errors.Code
	}{
		{
			"undefined table",
			http.StatusNotFound,
			`{"code":"42P01","message":"relation \"public.scores\" does not exist"}`,
			errors.CodeSchemaMissing,
		},
		{
			"unique violation",
			http.StatusConflict,
			`{"code":"23505","message":"duplicate key value violates unique constraint"}`,
			errors.CodeDuplicate,
		},
		{
			"not null violation",
			http.StatusBadRequest,
			`{"code":"23502","message":"null value in column \"email\""}`,
			errors.CodeValidation,
		},
		{
			"check constraint by message",
			http.StatusBadRequest,
			`{"message":"new row violates check constraint \"scores_score_check\""}`,
			errors.CodeValidation,
		},
		{
			"row level security policy",
			http.StatusUnauthorized,
			`{"message":"new row violates row-level security policy for table \"scores\""}`,
			errors.CodeRateLimited,
		},
		{
			"does not exist by message",
			http.StatusBadRequest,
			`{"message":"relation scores does not exist"}`,
			errors.CodeSchemaMissing,
		},
		{
			"429 without body",
			http.StatusTooManyRequests,
			``,
			errors.CodeRateLimited,
		},
		{
			"404 without body",
			http.StatusNotFound,
			``,
			errors.CodeSchemaMissing,
		},
		{
			"unrecognized with message",
			http.StatusInternalServerError,
			`{"message":"something went sideways"}`,
			errors.CodeUnknown,
		},
		{
			"unrecognized without body",
			http.StatusBadGateway,
			`not even json`,
			errors.CodeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyError(tt.status, []byte(tt.body))
			assert.Equal(t, tt.want, errors.CodeOf(err))
		})
	}
}

func TestClassifyError_KeepsOriginalMessage(t *testing.T) {
	err := classifyError(http.StatusInternalServerError, []byte(`{"message":"something went sideways"}`))
	assert.ErrorContains(t, err, "something went sideways")
}
