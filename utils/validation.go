package utils

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxIDLength bounds vertex identifiers so they stay usable as URL path
// segments and storage keys.
const MaxIDLength = 255

// ValidateVertexID checks that an identifier is non-empty, valid UTF-8,
// within length bounds, and free of control characters. Identifiers are
// otherwise opaque to the store.
func ValidateVertexID(id string) error {
	if id == "" {
		return fmt.Errorf("vertex id must not be empty")
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("vertex id exceeds %d bytes", MaxIDLength)
	}
	if !utf8.ValidString(id) {
		return fmt.Errorf("vertex id is not valid UTF-8")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return fmt.Errorf("vertex id contains control characters")
		}
	}
	return nil
}

// GenerateVertexID creates a unique vertex identifier using UUID v4, used
// when the caller does not supply one.
func GenerateVertexID() string {
	return uuid.New().String()
}
