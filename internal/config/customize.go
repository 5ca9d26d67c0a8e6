package config

import (
	"schemagen/internal/ddl"
)

// BuildOptions converts the naming section to ddl.BuildOptions.
func (n Naming) BuildOptions() ddl.BuildOptions {
	o := ddl.BuildOptions{
		TablePrefix:  n.TablePrefix,
		ColumnPrefix: n.ColumnPrefix,
		KeyComment:   n.KeyComment,
	}
	if n.TableSuffix != nil {
		o.TableSuffix = *n.TableSuffix
		o.NoTableSuffix = *n.TableSuffix == ""
	}
	return o
}

// OpsFor returns the customization ops for an entity, looked up by its
// simple name first and by its table name second. Both lists apply when
// both keys are present.
func (p Project) OpsFor(entity, table string) []ddl.Op {
	var ops []ddl.Op
	ops = append(ops, toOps(p.Customize[entity])...)
	if table != entity {
		ops = append(ops, toOps(p.Customize[table])...)
	}
	return ops
}

func toOps(cs []Customization) []ddl.Op {
	ops := make([]ddl.Op, 0, len(cs))
	for _, c := range cs {
		switch {
		case c.Key != "":
			ops = append(ops, ddl.Key(c.Key))
		case c.Column != nil:
			ops = append(ops, ddl.Set(c.Column.Field, ddl.Override{
				Type:    c.Column.Type,
				Comment: c.Column.Comment,
				Default: c.Column.Default,
			}))
		case len(c.Exclude) > 0:
			acc := make([]any, len(c.Exclude))
			for i, f := range c.Exclude {
				acc[i] = f
			}
			ops = append(ops, ddl.Exclude(acc...))
		}
	}
	return ops
}
