package security

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// MaxSearchQueryLength defines the maximum allowed length for search queries
const MaxSearchQueryLength = 100

var (
	// ErrSearchQueryTooLong is returned for queries above MaxSearchQueryLength
	ErrSearchQueryTooLong = errors.New("search query too long")
	// ErrSearchQueryInvalid is returned for queries with forbidden content
	ErrSearchQueryInvalid = errors.New("search query contains invalid characters")
)

// dangerousPatterns catches SQL comment markers and script payloads.
// Plain words are left to the character whitelist, so a client named
// "Select Ltda" stays searchable.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(--|/\*|\*/)`),
	regexp.MustCompile(`(?i)(<script|</script|javascript:|vbscript:|onload=|onerror=)`),
}

// ValidateSearchQuery trims a free-text search query and rejects anything
// that does not look like a name, e-mail or phone fragment.
func ValidateSearchQuery(query string) (string, error) {
	if len(query) > MaxSearchQueryLength {
		return "", ErrSearchQueryTooLong
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(query) {
			return "", ErrSearchQueryInvalid
		}
	}

	for _, char := range query {
		if !isValidSearchChar(char) {
			return "", ErrSearchQueryInvalid
		}
	}

	return query, nil
}

// isValidSearchChar checks if a character is safe for search queries
func isValidSearchChar(char rune) bool {
	return unicode.IsLetter(char) || unicode.IsNumber(char) ||
		char == ' ' || char == '-' || char == '_' || char == '.' ||
		char == '@' || char == '+' || char == '%'
}

// SanitizeSearchString escapes LIKE wildcards so the query matches literally.
// The result is meant for a pattern that declares ESCAPE '\'.
func SanitizeSearchString(query string) string {
	if query == "" {
		return ""
	}

	query = strings.ReplaceAll(query, `\`, `\\`)
	query = strings.ReplaceAll(query, "%", `\%`)
	query = strings.ReplaceAll(query, "_", `\_`)

	return query
}
