// internal/ddl/create.go

// Package ddl holds the table model generated from entity declarations and
// renders it as MySQL CREATE TABLE statements.
//
// The flow is build, customize, render:
//
//	t, err := ddl.BuildTable(entity, ddl.BuildOptions{})
//	if errors.Is(err, ddl.ErrEmptyTable) { /* skip */ }
//	t.SetKey("code").Exclude("getPassword")
//	sql, err := ddl.BuildCreateTableSQL(t)
//
// Identifiers are backtick-quoted and comments single-quoted. The output is
// scaffolding for a schema, not a migration: defaults are carried in the
// model but not emitted, and only the primary key is declared.
package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders t as a MySQL CREATE TABLE statement.
//
// Rules:
//
//   - Columns[0] is the primary key. When its type is an integer family
//     (tinyint, int, bigint) it renders NOT NULL AUTO_INCREMENT and, if its
//     comment is empty, takes t.KeyComment (default "主键").
//
//   - Every effective column renders as one line, in order:
//
//     `<ColumnPrefix><Name>` <Type>[ NOT NULL AUTO_INCREMENT] COMMENT '<Comment>',
//
//   - PRIMARY KEY (`<key>`) is emitted only when the key column is effective.
//
//   - The statement ends with
//
//     ) ENGINE=InnoDB[ AUTO_INCREMENT=1] DEFAULT CHARSET=utf8 COMMENT='<Comment>';
//
//     where AUTO_INCREMENT=1 requires an effective auto-increment key.
//
// t is not modified, so rendering the same table twice yields identical
// output.
func BuildCreateTableSQL(t *Table) (string, error) {
	if t == nil {
		return "", fmt.Errorf("ddl: nil table")
	}
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: table %s has no columns", name)
	}

	key := t.Columns[0].Copy()
	key.Increased = isIntegerType(key.Type)
	if key.Increased && key.Comment == "" {
		key.Comment = t.KeyComment
		if key.Comment == "" {
			key.Comment = DefaultKeyComment
		}
	}

	lines := make([]string, 0, len(t.Columns)+3)
	lines = append(lines, fmt.Sprintf("CREATE TABLE `%s%s` (", t.TablePrefix, name))
	for i, c := range t.Columns {
		if i == 0 {
			c = key
		}
		if !c.rendered() {
			continue
		}
		lines = append(lines, columnSQL(c, t.ColumnPrefix, i == 0 && key.Increased))
	}
	keyEffective := key.rendered()
	if keyEffective {
		lines = append(lines, fmt.Sprintf("    PRIMARY KEY (`%s%s`)", t.ColumnPrefix, key.Name))
	}

	var sb strings.Builder
	sb.WriteString(") ENGINE=InnoDB")
	if keyEffective && key.Increased {
		sb.WriteString(" AUTO_INCREMENT=1")
	}
	sb.WriteString(" DEFAULT CHARSET=utf8")
	sb.WriteString(" COMMENT='")
	sb.WriteString(quote(t.Comment))
	sb.WriteString("';")
	lines = append(lines, sb.String())

	return strings.Join(lines, "\n"), nil
}

func columnSQL(c *Column, prefix string, increased bool) string {
	var sb strings.Builder
	sb.WriteString("    `")
	sb.WriteString(prefix)
	sb.WriteString(c.Name)
	sb.WriteString("` ")
	sb.WriteString(c.Type)
	if increased {
		sb.WriteString(" NOT NULL AUTO_INCREMENT")
	}
	sb.WriteString(" COMMENT '")
	sb.WriteString(quote(c.Comment))
	sb.WriteString("',")
	return sb.String()
}

// quote escapes single quotes for use inside a '...' literal.
func quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// JoinStatements joins rendered statements with a blank line between them
// and terminates the result with a newline. It returns "" for no statements.
func JoinStatements(stmts []string) string {
	if len(stmts) == 0 {
		return ""
	}
	return strings.Join(stmts, "\n\n") + "\n"
}
