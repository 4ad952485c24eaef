package errors

import (
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// maxIDLength bounds identifiers that arrive as text.
const maxIDLength = 256

// ValidateID validates an identifier given as text (a URL path segment or a
// command-line argument) before it is parsed into a tree ID.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - Maximum length of 256 bytes
func ValidateID(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}

	if len(raw) > maxIDLength {
		return New(ErrCodeInvalidID, "id too long (max %d characters)", maxIDLength)
	}

	for _, r := range raw {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "id contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates a path given on the command line for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//
// "-" is accepted and means standard input or output.
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

// ValidateFormat checks that format is one of allowed, ignoring case.
// An empty format is accepted and means "infer from the file extension".
func ValidateFormat(format string, allowed ...string) error {
	if format == "" {
		return nil
	}
	if !slices.Contains(allowed, strings.ToLower(format)) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// FormatFromPath returns the lower-cased file extension of path without the
// dot, so "records.YAML" yields "yaml" and "-" yields "".
func FormatFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yml":
		return "yaml"
	case "":
		return ""
	}
	return ext[1:]
}
