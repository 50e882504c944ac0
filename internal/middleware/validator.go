package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// MaxCodeBytes caps submitted snippets; anything larger is rejected before
// it reaches the model backend.
const MaxCodeBytes = 128 * 1024

var languagePattern = regexp.MustCompile(`^[a-zA-Z0-9+#._ -]{0,32}$`)

// ValidateCode checks the submitted snippet
func ValidateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("code cannot be empty")
	}
	if len(code) > MaxCodeBytes {
		return fmt.Errorf("code exceeds maximum size of %d bytes", MaxCodeBytes)
	}
	return nil
}

// ValidateLanguage checks the optional language hint
func ValidateLanguage(language string) error {
	if language == "" {
		return nil // Optional field
	}
	if !languagePattern.MatchString(language) {
		return fmt.Errorf("invalid language hint (letters, digits, +#._- only, max 32 chars)")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidatePageSize validates pagination page size
func ValidatePageSize(size int) int {
	if size <= 0 {
		return 20 // default
	}
	if size > 100 {
		return 100 // max
	}
	return size
}

// ValidatePage validates pagination page number
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// ValidateDays validates days parameter
func ValidateDays(days int) int {
	if days <= 0 {
		return 7 // default
	}
	if days > 365 {
		return 365 // max 1 year
	}
	return days
}
