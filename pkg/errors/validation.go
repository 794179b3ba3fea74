package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidatePath validates a user-supplied file path.
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

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateChoice checks that value is one of allowed, ignoring case.
// what names the setting in the error message.
func ValidateChoice(code Code, what, value string, allowed []string) error {
	if value == "" {
		return New(code, "%s cannot be empty", what)
	}
	if !slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, value) }) {
		return New(code, "invalid %s %q (want one of: %s)", what, value, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateFormats checks every requested output format against allowed.
func ValidateFormats(formats, allowed []string) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "no output format requested")
	}
	for _, f := range formats {
		if err := ValidateChoice(ErrCodeInvalidFormat, "format", f, allowed); err != nil {
			return err
		}
	}
	return nil
}
