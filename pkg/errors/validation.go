package errors

import (
	"strings"
	"unicode"
)

// ValidateCoordinatePart validates one groupId, artifactId or version for use
// in repository paths and URLs.
//
// Coordinates end up as directory names in the local repository, so the
// rules reject anything that could escape the repository root:
//   - No empty values
//   - No control characters or whitespace
//   - No path separators, ".." sequences or null bytes
//   - Maximum length of 256 characters
func ValidateCoordinatePart(field, value string) error {
	if value == "" {
		return New(ErrCodeInvalidCoordinate, "%s cannot be empty", field)
	}
	if len(value) > 256 {
		return New(ErrCodeInvalidCoordinate, "%s too long (max 256 characters)", field)
	}
	for _, r := range value {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid characters", field)
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(value, pattern) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid characters: %q", field, pattern)
		}
	}
	if strings.Contains(value, "${") {
		return New(ErrCodeInvalidCoordinate, "%s has an unresolved property: %s", field, value)
	}
	return nil
}

// ValidatePath validates a path inside an archive before it is joined to a
// filesystem or URL path.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}
	if len(path) > 1024 {
		return New(ErrCodeInvalidInput, "path too long (max 1024 characters)")
	}
	if strings.Contains(path, "\x00") {
		return New(ErrCodeInvalidInput, "path contains null byte")
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidInput, "path traversal not allowed")
		}
	}
	return nil
}
