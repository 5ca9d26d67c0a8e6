// Package decl extracts schema hints from the source text of a type
// declaration: the comment attached to each field, the table comment, and
// the field descriptors themselves.
//
// It intentionally does not parse the declaration language. Everything here
// is a line-oriented heuristic tuned for a disciplined declaration style:
//
//   - one field per line, terminated by ';'
//   - a doc comment, block comment or line comment immediately before a
//     field, or a trailing '//' comment on the same line
//   - fields declared before the first method
//
// Input that does not follow that style degrades to missing comments; it
// never fails.
package decl

import "strings"

// Comments maps a declared field name to its comment. A field that was found
// but carries no comment is present with an empty value, so callers can tell
// "no comment" apart from "field not found" with Lookup.
type Comments map[string]string

// Lookup returns the comment recorded for field and whether the field was
// seen at all.
func (c Comments) Lookup(field string) (string, bool) {
	s, ok := c[field]
	return s, ok
}

// FieldComments scans the declaration lines of typeName and returns the
// comment attached to every field it recognizes.
//
// Lines before the one containing "class <typeName>" are ignored. The scan
// stops at the first line that looks like a method header (contains '(' and
// ')' and ends with '{'). A line containing ';' is a field; its name is the
// last whitespace-separated token before any trailing "//".
func FieldComments(lines []string, typeName string) Comments {
	out := Comments{}
	opener := "class " + typeName

	var (
		started  bool
		inBlock  bool
		pending  string
		havePend bool
	)
	setPending := func(s string) {
		pending, havePend = s, true
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !started {
			started = strings.Contains(line, opener)
			continue
		}

		if inBlock {
			if s := strings.TrimSpace(trimStars(line)); s != "" {
				setPending(s)
				inBlock = false
				continue
			}
		} else {
			if strings.HasPrefix(line, "/*") {
				inBlock = true
				if strings.HasSuffix(line, "*/") {
					setPending(singleLineDoc(line))
					inBlock = false
					continue
				}
			}
			if strings.HasPrefix(line, "//") {
				setPending(strings.TrimSpace(line[2:]))
				inBlock = false
				continue
			}
		}

		if isMethodHeader(line) {
			return out
		}

		if strings.Contains(line, ";") && !strings.HasPrefix(line, "//") {
			decl := line
			if i := strings.Index(line, "//"); i >= 0 {
				if !havePend {
					if trailing := strings.TrimSpace(trailingComment(line[i+2:])); trailing != "" {
						setPending(trailing)
					}
				}
				decl = line[:i]
			}
			out[lastToken(decl)] = pending
			pending, havePend = "", false
			inBlock = false
		}
	}
	return out
}

// isMethodHeader is the heuristic for "behavior starts here".
func isMethodHeader(line string) bool {
	return strings.Contains(line, "(") && strings.Contains(line, ")") && strings.HasSuffix(line, "{")
}

// trailingComment returns the text of a trailing "//" comment up to any
// further "//" on the line.
func trailingComment(s string) string {
	if i := strings.Index(s, "//"); i >= 0 {
		return s[:i]
	}
	return s
}

// lastToken returns the last whitespace-separated token that is neither
// empty nor a bare ';', with any ';' removed. It returns "" when there is
// none.
func lastToken(s string) string {
	parts := strings.Fields(s)
	for i := len(parts) - 1; i >= 0; i-- {
		if p := parts[i]; p != ";" {
			return strings.ReplaceAll(p, ";", "")
		}
	}
	return ""
}

// singleLineDoc extracts the text of a comment opened and closed on the same
// line, such as "/** user name */".
func singleLineDoc(line string) string {
	if len(line) < 4 {
		return ""
	}
	return strings.TrimSpace(trimStars(line[2 : len(line)-2]))
}

// trimStars removes leading and trailing runes up to and including '*'
// (which covers ASCII whitespace and control characters as well), the way
// doc-comment continuation lines are cleaned.
func trimStars(s string) string {
	start, end := 0, len(s)
	for start < end && s[start] <= '*' {
		start++
	}
	for end > start && s[end-1] <= '*' {
		end--
	}
	return s[start:end]
}
