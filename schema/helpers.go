package schema

import (
	"strconv"
	"strings"
	"unicode"
)

// Ptr returns a pointer to v. Used for building optional fields.
func Ptr[T any](v T) *T {
	return &v
}

// IntValue dereferences an optional int, zero when absent.
func IntValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// BoolValue dereferences an optional bool, false when absent.
func BoolValue(p *bool) bool {
	return p != nil && *p
}

// StringValue dereferences an optional string, empty when absent.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// FormatScore renders an optional score as "85%", or NoScore when absent.
func FormatScore(score *int) string {
	if score == nil {
		return NoScore
	}
	return strconv.Itoa(*score) + "%"
}

// cleanParts trims punctuation from both ends of each name part and drops empties.
func cleanParts(parts []string) []string {
	var cleaned []string
	for _, p := range parts {
		cp := strings.TrimFunc(p, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '\'' && r != '.'
		})
		cp = strings.TrimSuffix(cp, ".")
		if cp != "" {
			cleaned = append(cleaned, cp)
		}
	}
	return cleaned
}

// AbbreviateName formats "Jane Doe" as "Jane D" so rosters can be shown on a shared screen.
// Single-word names are returned unchanged.
func AbbreviateName(name string) string {
	trimmed := strings.Trim(strings.TrimSpace(name), "()\"'`")
	cleaned := cleanParts(strings.Fields(trimmed))

	switch {
	case len(cleaned) >= 2:
		last := []rune(cleaned[len(cleaned)-1])
		return cleaned[0] + " " + string(last[0])
	case len(cleaned) == 1:
		return cleaned[0]
	default:
		return trimmed
	}
}

// DisplayName returns the name as shown in tables, abbreviated when requested.
func DisplayName(name string, abbreviate bool) string {
	if abbreviate {
		return AbbreviateName(name)
	}
	return name
}
