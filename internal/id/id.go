package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// localPrefix marks client-generated record IDs. Server-assigned IDs are
// UUIDs, so the prefix makes the two distinguishable at a glance.
const localPrefix = "local"

// NewLocal creates an ID for a locally-created score record.
// Format: local-<unix-millis>-<nanoid> (e.g. "local-1718000000000-V1StGXR8_Z").
//
// The timestamp component keeps IDs roughly sortable by creation time; the
// NanoID suffix guarantees uniqueness for records created in the same
// millisecond.
//
// Returns an error if the system has insufficient entropy for secure random
// generation.
func NewLocal() (string, error) {
	suffix, err := gonanoid.New(10)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return fmt.Sprintf("%s-%d-%s", localPrefix, time.Now().UnixMilli(), suffix), nil
}

// MustNewLocal is like NewLocal but panics if ID generation fails.
// Use only where failure should crash the program.
func MustNewLocal() string {
	id, err := NewLocal()
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// IsLocal reports whether id was generated client-side by NewLocal, as
// opposed to assigned by the remote backend.
func IsLocal(id string) bool {
	rest, ok := strings.CutPrefix(id, localPrefix+"-")
	if !ok {
		return false
	}
	millis, _, ok := strings.Cut(rest, "-")
	if !ok {
		return false
	}
	_, err := strconv.ParseInt(millis, 10, 64)
	return err == nil
}
