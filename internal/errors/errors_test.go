package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusUnprocessableEntity},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeDuplicate, http.StatusConflict},
		{CodeConfiguration, http.StatusServiceUnavailable},
		{CodeSchemaMissing, http.StatusServiceUnavailable},
		{CodeNetwork, http.StatusBadGateway},
		{CodeUnknown, http.StatusInternalServerError},
		{CodeStorage, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestErrorIs_MatchesByCode(t *testing.T) {
	err := Validation("score out of range")

	assert.True(t, Is(err, ErrValidation))
	assert.False(t, Is(err, ErrRateLimited))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, CodeNetwork, "request failed")

	assert.Equal(t, CodeNetwork, err.Code)
	assert.ErrorContains(t, err, "request failed")
	assert.ErrorContains(t, err, "connection refused")
	require.ErrorIs(t, err, cause)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeDuplicate, CodeOf(Duplicate("already recorded")))
	assert.Equal(t, CodeNetwork, CodeOf(fmt.Errorf("outer: %w", Network("timeout"))))
	assert.Equal(t, CodeUnknown, CodeOf(fmt.Errorf("plain error")))
}

func TestWithDetails(t *testing.T) {
	err := ValidationWithDetails("validation failed", map[string]string{
		"email": "must be a valid email address",
	})

	assert.Equal(t, CodeValidation, err.Code)
	details, ok := err.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be a valid email address", details["email"])
}
