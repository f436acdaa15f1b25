package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxNodes bounds the size of a graph accepted for layout. Coordinates are
// 16-bit, so much larger graphs cannot be spread out without overlaps anyway.
const MaxNodes = 5000

// MaxGenerations bounds the generation count accepted from callers.
const MaxGenerations = 10000

// ValidateNodeName validates a node name for safety and correctness.
// Names end up in DOT sources and SVG text, so control characters and
// embedded quotes are rejected.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No double quotes
//   - Maximum length of 256 characters
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidGraph, "node name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidGraph, "node name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node name contains invalid control characters")
		}
	}

	if strings.ContainsRune(name, '"') {
		return New(ErrCodeInvalidGraph, "node name cannot contain double quotes: %q", name)
	}

	return nil
}

// ValidateGraphSize rejects graphs with more than MaxNodes nodes.
func ValidateGraphSize(nodes int) error {
	if nodes > MaxNodes {
		return New(ErrCodeInvalidGraph, "graph too large (%d nodes, max %d)", nodes, MaxNodes)
	}
	return nil
}

// ValidateLayoutKind checks kind against the accepted kinds.
func ValidateLayoutKind(kind string, accepted []string) error {
	if !slices.Contains(accepted, kind) {
		return New(ErrCodeInvalidKind, "invalid layout kind: %s (must be one of: %s)", kind, strings.Join(accepted, ", "))
	}
	return nil
}

// ValidateGenerations rejects negative or excessive generation counts.
// Zero is accepted and means "use the default".
func ValidateGenerations(n int) error {
	if n < 0 || n > MaxGenerations {
		return New(ErrCodeInvalidOptions, "generations must be between 0 and %d, got %d", MaxGenerations, n)
	}
	return nil
}

// ValidateRate rejects rates outside [0, 1).
func ValidateRate(name string, v float64) error {
	if v < 0 || v >= 1 {
		return New(ErrCodeInvalidOptions, "%s must be in [0, 1), got %v", name, v)
	}
	return nil
}

// ValidatePath validates a file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
