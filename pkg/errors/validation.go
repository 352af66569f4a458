package errors

import (
	"strings"
	"unicode"
)

// ValidateStateName validates a user-supplied state label such as a graph
// node name. Labels end up in cache keys, DOT output and terminal output, so
// the rules are conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateStateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "state name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "state name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "state name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates a problem file path supplied over the API.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
