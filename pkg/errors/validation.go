package errors

import (
	"strings"
	"unicode"
)

// ValidatePlayerName validates a roster player name for safety and correctness.
// It rejects names that could produce unsafe export filenames.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 128 characters
func ValidatePlayerName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRoster, "player name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidRoster, "player name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRoster, "player name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidRoster, "player name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateJerseyNumber validates a jersey number string.
// Numbers are kept as strings to preserve leading zeros ("07"), but must
// consist of digits only and be at most 3 characters.
func ValidateJerseyNumber(num string) error {
	if num == "" {
		return New(ErrCodeInvalidRoster, "jersey number cannot be empty")
	}
	if len(num) > 3 {
		return New(ErrCodeInvalidRoster, "jersey number too long (max 3 digits)")
	}
	for _, r := range num {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidRoster, "jersey number must be digits only: %q", num)
		}
	}
	return nil
}
