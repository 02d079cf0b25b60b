package uuidutil

import (
	"strings"

	"github.com/google/uuid"
)

// New generates a new random UUID v4 in its canonical hyphenated form.
func New() string {
	return uuid.NewString()
}

// NewCompact generates a random UUID v4 without hyphens. Content store
// record ids use this form.
func NewCompact() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsValid checks if a string is a valid UUID in any form uuid.Parse accepts.
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
