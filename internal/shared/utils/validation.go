package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Request size limits (in bytes)
const (
	MaxBodySize = 64 * 1024 // 64KB - every filesystem request body is tiny
)

// String length limits
const (
	MaxIDLength   = 128
	MaxPathLength = 4096 // PATH_MAX on Linux
	MaxNameLength = 255  // NAME_MAX on Linux
	MaxGlobLength = 1024
)

// Regular expressions for validation
var (
	// ToolIDPattern allows alphanumeric, hyphens, underscores, and dots (for service.tool format)
	ToolIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	// Null bytes truncate paths at the syscall boundary
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateToolID validates a tool ID field (allows dots for service.tool format)
func ValidateToolID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}

	if id != "" && !ToolIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, dots, hyphens, and underscores allowed)", fieldName)
	}

	return nil
}

// ValidateRoot validates a caller-selected root directory
func ValidateRoot(root string) error {
	return ValidateString(root, "root", 1, MaxPathLength, true)
}

// ValidatePath validates a root-relative path. Empty means the root itself.
func ValidatePath(path, fieldName string, required bool) error {
	return ValidateString(path, fieldName, 1, MaxPathLength, required)
}

// ValidateFileName validates a single file name. Whether it is a legal path
// element is decided by the filesystem layer; this only bounds its size.
func ValidateFileName(name string) error {
	return ValidateString(name, "new_name", 1, MaxNameLength, true)
}

// ValidatePattern validates an optional glob pattern
func ValidatePattern(pattern string) error {
	return ValidateString(pattern, "pattern", 1, MaxGlobLength, false)
}
