package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxTableNameLength bounds table keys accepted from input files.
const maxTableNameLength = 256

// ValidateTableName validates a table key used as a hierarchy node name or
// graph node id.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateTableName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "table name cannot be empty")
	}

	if len(name) > maxTableNameLength {
		return New(ErrCodeInvalidInput, "table name too long (max %d characters)", maxTableNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "table name %q contains control characters", name)
		}
	}

	return nil
}

// ValidateDimensions validates canvas dimensions in pixels.
// Both sides must be finite and strictly positive.
func ValidateDimensions(width, height float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return New(ErrCodeInvalidDimensions, "width must be a positive finite number, got %v", width)
	}
	if math.IsNaN(height) || math.IsInf(height, 0) || height <= 0 {
		return New(ErrCodeInvalidDimensions, "height must be a positive finite number, got %v", height)
	}
	return nil
}

// ValidatePath validates an input file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
