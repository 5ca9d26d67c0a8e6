package decl

import "strings"

// DefaultTableMarker is appended to table comments that do not already end
// with it. Table comments conventionally read "<subject>表".
const DefaultTableMarker = "表"

// TableComment returns the first doc-comment line of the declaration: the
// first line whose trimmed form starts with '*', without that '*'. marker is
// appended unless the comment already ends with it; an empty marker leaves
// the text as found.
//
// The second return value is false when no such line exists.
func TableComment(lines []string, marker string) (string, bool) {
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "*") || len(raw) <= 1 {
			continue
		}
		return WithMarker(strings.TrimSpace(line[1:]), marker), true
	}
	return "", false
}

// WithMarker appends marker to s unless s already ends with it.
func WithMarker(s, marker string) string {
	if marker == "" || strings.HasSuffix(s, marker) {
		return s
	}
	return s + marker
}
