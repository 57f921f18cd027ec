package response

import (
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhAI44/flapppybirdd/internal/errors"
)

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(rec, map[string]string{"status": "healthy"}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var envelope Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Empty(t, envelope.Error)
}

func TestHandleError_DomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{errors.Validation("bad input"), http.StatusUnprocessableEntity},
		{errors.RateLimited("slow down"), http.StatusTooManyRequests},
		{errors.Duplicate("already there"), http.StatusConflict},
		{errors.SchemaMissing("no table"), http.StatusServiceUnavailable},
		{fmt.Errorf("plain error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		HandleError(rec, tt.err, nil)
		assert.Equal(t, tt.wantStatus, rec.Code)

		var envelope Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.False(t, envelope.Success)
		assert.NotEmpty(t, envelope.Error)
	}
}
