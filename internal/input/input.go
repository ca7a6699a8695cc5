package input

import "strings"

// DefaultValue pre-fills the form.
const DefaultValue = "a,1,334,4,R,$"

// Split splits a comma-separated string and trims whitespace.
// Order and duplicates are preserved and empty segments are kept.
func Split(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, len(parts))
	for i, part := range parts {
		result[i] = strings.TrimSpace(part)
	}
	return result
}

func IsBlank(raw string) bool {
	return strings.TrimSpace(raw) == ""
}
