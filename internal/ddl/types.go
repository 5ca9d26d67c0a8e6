package ddl

// Column describes a single column of a generated table.
//
// Fields:
//   - Name: snake_case identifier (unquoted; prefixes and quoting are applied at render time)
//   - Type: MySQL type (e.g., varchar(255), int(11)); empty keeps the column out of the output
//   - Comment: column comment; empty renders as COMMENT ''
//   - Default: raw default expression; carried in the model, not rendered
//   - Effective: false once the column has been excluded by a customization
//   - Increased: set on an integer primary key, which renders as AUTO_INCREMENT
type Column struct {
	Name      string
	Type      string
	Comment   string
	Default   string
	Effective bool
	Increased bool
}

// NewColumn returns an effective column.
func NewColumn(name, sqlType, comment string) *Column {
	return &Column{Name: name, Type: sqlType, Comment: comment, Effective: true}
}

// Copy returns an independent copy of c.
func (c *Column) Copy() *Column {
	cp := *c
	return &cp
}

// rendered reports whether the column produces a line in CREATE TABLE.
func (c *Column) rendered() bool {
	return c.Effective && c.Type != ""
}

// Table is the in-memory model of one CREATE TABLE statement. It is built by
// BuildTable, optionally adjusted through the customization methods, and
// rendered by BuildCreateTableSQL.
//
// Columns[0] is always the primary key. TablePrefix and ColumnPrefix are
// prepended to the table and column names at render time.
type Table struct {
	Name         string
	Comment      string
	TablePrefix  string
	ColumnPrefix string
	// KeyComment replaces an empty comment on an auto-increment key.
	KeyComment   string
	Columns      []*Column

	resolve FieldResolver
}

// Key returns the primary-key column, or nil for a table without columns.
func (t *Table) Key() *Column {
	if len(t.Columns) == 0 {
		return nil
	}
	return t.Columns[0]
}

// Column returns the column with the given SQL name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// EffectiveColumns returns the columns that will be rendered, in order.
func (t *Table) EffectiveColumns() []*Column {
	out := make([]*Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.rendered() {
			out = append(out, c)
		}
	}
	return out
}

// ColumnNames returns the SQL names of all columns, rendered or not.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// markKey refreshes Increased so that only an integer column at index 0
// carries it.
func (t *Table) markKey() {
	for i, c := range t.Columns {
		c.Increased = i == 0 && isIntegerType(c.Type)
	}
}
