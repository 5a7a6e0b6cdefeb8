package service

import (
	"strings"

	"github.com/google/uuid"
)

// Prefixes for generated test identifiers.
const (
	TestUserPrefix    = "test_user_"
	TestContentPrefix = "test_content_"
)

// NewTestPayload returns a create payload with a fresh user_id and content.
// Each call draws two random UUIDs, so task sets of concurrent runs never overlap.
func NewTestPayload() TaskPayload {
	return TaskPayload{
		UserID:  TestUserPrefix + NewHexID(),
		Content: TestContentPrefix + NewHexID(),
		IsDone:  false,
	}
}

// NewHexID returns a random UUIDv4 as 32 hex characters without dashes.
func NewHexID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
