package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/sheikhAI44/flapppybirdd/internal/errors"
)

type testSubmission struct {
	Email string `json:"email" validate:"required,email"`
	Score int    `json:"score" validate:"gte=0,lte=10000"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(testSubmission{Email: "jane@example.com", Score: 42}))
	assert.NoError(t, v.Validate(testSubmission{Email: "jane@example.com", Score: 0}))
	assert.NoError(t, v.Validate(testSubmission{Email: "jane@example.com", Score: 10000}))
}

func TestValidate_Invalid(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		input testSubmission
		field string
	}{
		{"missing email", testSubmission{Score: 10}, "email"},
		{"malformed email", testSubmission{Email: "nope", Score: 10}, "email"},
		{"negative score", testSubmission{Email: "jane@example.com", Score: -1}, "score"},
		{"score above ceiling", testSubmission{Email: "jane@example.com", Score: 10001}, "score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			require.Error(t, err)
			assert.Equal(t, domainerrors.CodeValidation, domainerrors.CodeOf(err))

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			// Field errors use the JSON tag name, not the Go field name.
			assert.Contains(t, details, tt.field)
		})
	}
}
