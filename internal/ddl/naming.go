package ddl

import (
	"strings"
	"unicode"
)

// SQLName derives the snake_case SQL identifier for a declared name: an
// underscore is inserted before every uppercase letter except the first
// character, and all letters are lowercased.
//
//	userName   -> user_name
//	UserRole   -> user_role
//	is_deleted -> is_deleted
//
// The mapping is lossy for leading capitals and acronyms ("URL" -> "u_r_l")
// but idempotent on names that are already snake_case.
func SQLName(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
