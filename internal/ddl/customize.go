package ddl

import (
	"fmt"
	"strings"
)

// Customizations adjust an inferred Table before it is rendered. Every
// method looks columns up through columnName and silently does nothing when
// no column matches: customizations are written against fields that exist
// by construction.

// Override carries the column attributes to overwrite; nil fields are left
// untouched.
type Override struct {
	Type    *string
	Comment *string
	Default *string
}

// Op is one customization step. Ops are built with Key, Set and Exclude
// and applied with Apply, which keeps building and customizing as separate,
// separately testable phases.
type Op func(t *Table)

// Apply runs ops against t in order and returns t.
func Apply(t *Table, ops ...Op) *Table {
	for _, op := range ops {
		if op != nil {
			op(t)
		}
	}
	return t
}

// Key returns an Op that calls SetKey.
func Key(accessor any) Op {
	return func(t *Table) { t.SetKey(accessor) }
}

// Set returns an Op that calls OverrideColumn.
func Set(accessor any, o Override) Op {
	return func(t *Table) { t.OverrideColumn(accessor, o) }
}

// Exclude returns an Op that calls Exclude.
func Exclude(accessors ...any) Op {
	return func(t *Table) { t.Exclude(accessors...) }
}

// WithResolver sets the FieldResolver used by the customization methods.
// A nil resolver restores ResolveName.
func (t *Table) WithResolver(r FieldResolver) *Table {
	t.resolve = r
	return t
}

// columnName maps an accessor to a column name. A name whose SQL form is
// already a column wins; otherwise the resolver runs, so "isDeleted" finds
// `is_deleted` before the getter rule would turn it into `deleted`.
func (t *Table) columnName(accessor any) string {
	if s, ok := accessorText(accessor); ok {
		if name := SQLName(s); name != "" && t.indexOf(name) >= 0 {
			return name
		}
	}
	r := t.resolve
	if r == nil {
		r = ResolveName
	}
	field := r(accessor)
	if field == "" {
		return ""
	}
	return SQLName(field)
}

func accessorText(accessor any) (string, bool) {
	switch v := accessor.(type) {
	case string:
		return strings.TrimSpace(v), true
	case fmt.Stringer:
		return strings.TrimSpace(v.String()), true
	}
	return "", false
}

// indexOf returns the position of the last column named name, or -1.
func (t *Table) indexOf(name string) int {
	idx := -1
	for i, c := range t.Columns {
		if c.Name == name {
			idx = i
		}
	}
	return idx
}

// SetKey makes the accessor's column the primary key by moving a copy of it
// to the front. The relative order of the remaining columns is kept.
func (t *Table) SetKey(accessor any) *Table {
	name := t.columnName(accessor)
	if name == "" {
		return t
	}
	i := t.indexOf(name)
	if i < 0 {
		return t
	}
	key := t.Columns[i].Copy()
	cols := make([]*Column, 0, len(t.Columns))
	cols = append(cols, key)
	cols = append(cols, t.Columns[:i]...)
	cols = append(cols, t.Columns[i+1:]...)
	t.Columns = cols
	t.markKey()
	return t
}

// OverrideColumn overwrites the non-nil attributes of o on the accessor's
// column.
func (t *Table) OverrideColumn(accessor any, o Override) *Table {
	name := t.columnName(accessor)
	if name == "" {
		return t
	}
	c := t.Column(name)
	if c == nil {
		return t
	}
	if o.Type != nil {
		c.Type = *o.Type
	}
	if o.Comment != nil {
		c.Comment = *o.Comment
	}
	if o.Default != nil {
		c.Default = *o.Default
	}
	if c == t.Key() {
		t.markKey()
	}
	return t
}

// Exclude marks the accessors' columns ineffective. They stay in the model,
// keep their position (including the key slot) and are skipped at render
// time.
func (t *Table) Exclude(accessors ...any) *Table {
	for _, a := range accessors {
		name := t.columnName(a)
		if name == "" {
			continue
		}
		if c := t.Column(name); c != nil {
			c.Effective = false
		}
	}
	return t
}

// StringPtr is a convenience for building Override values.
func StringPtr(s string) *string { return &s }
