package ddl

import (
	"errors"

	"schemagen/internal/parser/decl"
	"schemagen/internal/schema"
)

// ErrEmptyTable is returned by BuildTable when an entity has no field that
// maps to a column. Callers skip such entities.
var ErrEmptyTable = errors.New("ddl: entity has no mappable fields")

// DefaultKeyComment is the comment given to an auto-increment key that has
// none.
const DefaultKeyComment = "主键"

// BuildOptions tunes naming and comment conventions. The zero value uses the
// defaults (table marker "表", key comment "主键", no prefixes).
type BuildOptions struct {
	// TableSuffix is appended to the table comment unless already present.
	// Set NoTableSuffix to disable it entirely.
	TableSuffix   string
	NoTableSuffix bool

	TablePrefix  string
	ColumnPrefix string
	KeyComment   string
}

func (o BuildOptions) marker() string {
	switch {
	case o.NoTableSuffix:
		return ""
	case o.TableSuffix == "":
		return decl.DefaultTableMarker
	default:
		return o.TableSuffix
	}
}

func (o BuildOptions) keyComment() string {
	if o.KeyComment == "" {
		return DefaultKeyComment
	}
	return o.KeyComment
}

// columnSet is an insertion-ordered set of columns keyed by field name.
type columnSet struct {
	fields []string
	byName map[string]*Column
}

func newColumnSet(n int) *columnSet {
	return &columnSet{fields: make([]string, 0, n), byName: make(map[string]*Column, n)}
}

// add inserts c under field unless field is already present. It reports
// whether c was inserted.
func (s *columnSet) add(field string, c *Column) bool {
	if _, ok := s.byName[field]; ok {
		return false
	}
	s.fields = append(s.fields, field)
	s.byName[field] = c
	return true
}

func (s *columnSet) columns() []*Column {
	out := make([]*Column, len(s.fields))
	for i, f := range s.fields {
		out[i] = s.byName[f]
	}
	return out
}

// Introspect maps the entity's own fields to columns, in declaration order.
//
// Field comments come from the declaration lines; a field without one falls
// back to its descriptor's Comment. Fields whose type does not map (see
// MapType) produce no column. The parent level is not consulted.
func Introspect(e schema.Entity) []*Column {
	return introspect(e).columns()
}

func introspect(e schema.Entity) *columnSet {
	comments := decl.FieldComments(e.Lines, e.Name)
	set := newColumnSet(len(e.Fields))
	for _, f := range e.Fields {
		typ, ok := MapType(f)
		if !ok {
			continue
		}
		comment, _ := comments.Lookup(f.Name)
		if comment == "" {
			comment = f.Comment
		}
		set.add(f.Name, NewColumn(SQLName(f.Name), typ, comment))
	}
	return set
}

// BuildTable builds the table model for e.
//
// Rules:
//
//   - Own fields come first, in declaration order; then the fields of
//     e.Parent (one level, never the root type) that the entity does not
//     redeclare. The parent's comments are read from the parent's own lines.
//
//   - The primary key is the column for field "id" if there is one, else
//     the first column. It is moved to index 0; the rest keep their order.
//
//   - The table name is SQLName(e.Name). The comment is the first doc-comment
//     line of e.Lines, falling back to e.Comment, with the table marker
//     appended.
//
// ErrEmptyTable is returned when no field maps to a column.
func BuildTable(e schema.Entity, opts BuildOptions) (*Table, error) {
	set := introspect(e)
	if p := e.Parent; p != nil && !schema.IsRoot(p.Name) {
		parent := introspect(*p)
		for _, f := range parent.fields {
			set.add(f, parent.byName[f])
		}
	}
	if len(set.fields) == 0 {
		return nil, ErrEmptyTable
	}

	cols := set.columns()
	key, ok := set.byName["id"]
	if !ok {
		key = cols[0]
	}
	if cols[0].Name != key.Name {
		cols = promote(cols, key)
	}

	t := &Table{
		Name:         SQLName(e.Name),
		Comment:      tableComment(e, opts.marker()),
		TablePrefix:  opts.TablePrefix,
		ColumnPrefix: opts.ColumnPrefix,
		KeyComment:   opts.keyComment(),
		Columns:      cols,
	}
	t.markKey()
	return t, nil
}

// promote returns a new slice with a copy of key first, followed by the other
// columns in their original order. cols itself is not modified.
func promote(cols []*Column, key *Column) []*Column {
	out := make([]*Column, 0, len(cols))
	out = append(out, key.Copy())
	for _, c := range cols {
		if c != key {
			out = append(out, c)
		}
	}
	return out
}

func tableComment(e schema.Entity, marker string) string {
	if c, ok := decl.TableComment(e.Lines, marker); ok {
		return c
	}
	if e.Comment != "" {
		return decl.WithMarker(e.Comment, marker)
	}
	return ""
}
