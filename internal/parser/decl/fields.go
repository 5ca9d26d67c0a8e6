package decl

import (
	"strings"

	"schemagen/internal/schema"
)

// Declaration is what Scan learns about one type from its source text.
type Declaration struct {
	// Name is the simple type name that was scanned for.
	Name string
	// Package is the declared package ("" when absent).
	Package string
	// Parent is the simple name after "extends", without type arguments.
	Parent string
	// Imports lists the imported qualified names in source order.
	Imports []string
	// Fields are the instance fields in declaration order.
	Fields []schema.Field
}

// Qualified returns the package-qualified type name.
func (d Declaration) Qualified() string {
	return qualify(d.Package, d.Name)
}

// ParentQualified resolves the parent's qualified name from the imports,
// falling back to the declaring package. It returns "" when there is no
// parent or the parent is the universal root type.
func (d Declaration) ParentQualified() string {
	if schema.IsRoot(d.Parent) {
		return ""
	}
	if strings.Contains(d.Parent, ".") {
		return d.Parent
	}
	for _, imp := range d.Imports {
		if strings.HasSuffix(imp, "."+d.Parent) {
			return imp
		}
	}
	return qualify(d.Package, d.Parent)
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// Scan reads field descriptors and the parent type of typeName from its
// declaration lines, using the same line discipline as FieldComments:
//
//   - fields are lines containing ';' between the "class <typeName>" line and
//     the first method header;
//   - the last token (before any initializer) is the field name and the one
//     before it is the type;
//   - "static" fields are skipped; "transient" fields, or fields preceded by
//     a @Transient annotation, are marked Excluded.
//
// Comment text is skipped, not interpreted; FieldComments owns comments.
func Scan(lines []string, typeName string) Declaration {
	d := Declaration{Name: typeName}
	opener := "class " + typeName

	var (
		started   bool
		inBlock   bool
		transient bool
	)
	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if inBlock {
			if i := strings.Index(line, "*/"); i >= 0 {
				inBlock = false
				line = strings.TrimSpace(line[i+2:])
			} else {
				continue
			}
		}
		if strings.HasPrefix(line, "/*") {
			if !strings.Contains(line[2:], "*/") {
				inBlock = true
			}
			continue
		}
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "*") {
			continue
		}

		if !started {
			switch {
			case strings.HasPrefix(line, "package "):
				d.Package = strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(line, "package ")), ";")
			case strings.HasPrefix(line, "import "):
				imp := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(line, "import ")), ";")
				if !strings.HasPrefix(imp, "static ") {
					d.Imports = append(d.Imports, imp)
				}
			case strings.Contains(line, opener):
				started = true
				d.Parent = parentOf(line, opener)
			}
			continue
		}

		if isMethodHeader(line) {
			break
		}

		if strings.HasPrefix(line, "@") && !strings.Contains(line, ";") {
			if isTransientAnnotation(line) {
				transient = true
			}
			continue
		}

		if !strings.Contains(line, ";") {
			continue
		}
		f, ok := scanField(line)
		if ok {
			f.Excluded = f.Excluded || transient
			d.Fields = append(d.Fields, f)
		}
		transient = false
	}
	return d
}

// scanField turns one field line into a descriptor. ok is false for static
// fields and lines that do not look like "<type> <name>".
func scanField(line string) (schema.Field, bool) {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "="); i >= 0 {
		line = line[:i]
	}
	line = strings.ReplaceAll(line, ";", " ")

	var (
		toks     []string
		excluded bool
		static   bool
	)
	for _, tok := range strings.Fields(line) {
		switch {
		case strings.HasPrefix(tok, "@"):
			excluded = excluded || isTransientAnnotation(tok)
		case tok == "static":
			static = true
		case tok == "transient":
			excluded = true
		case isModifier(tok):
		default:
			toks = append(toks, tok)
		}
	}
	if static || len(toks) < 2 {
		return schema.Field{}, false
	}
	name := toks[len(toks)-1]
	typ := toks[len(toks)-2]
	return schema.Field{
		Name:     name,
		Type:     SemanticTypeOf(typ),
		Excluded: excluded,
	}, true
}

func isModifier(tok string) bool {
	switch tok {
	case "public", "protected", "private", "final", "volatile":
		return true
	}
	return false
}

func isTransientAnnotation(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "@")
	if i := strings.IndexAny(s, "( "); i >= 0 {
		s = s[:i]
	}
	return s == "Transient" || strings.HasSuffix(s, ".Transient")
}

// parentOf returns the type named after "extends" on the declaration line.
func parentOf(line, opener string) string {
	rest := line[strings.Index(line, opener)+len(opener):]
	fields := strings.Fields(rest)
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] != "extends" {
			continue
		}
		p := fields[i+1]
		if j := strings.IndexAny(p, "<{,"); j >= 0 {
			p = p[:j]
		}
		return p
	}
	return ""
}

// SemanticTypeOf classifies a declared type name. Primitive and boxed
// spellings classify alike; anything unknown is schema.TypeOther.
func SemanticTypeOf(typeName string) schema.SemanticType {
	if i := strings.LastIndex(typeName, "."); i >= 0 {
		typeName = typeName[i+1:]
	}
	switch typeName {
	case "String":
		return schema.TypeText
	case "int", "Integer":
		return schema.TypeInt32
	case "long", "Long":
		return schema.TypeInt64
	case "double", "Double":
		return schema.TypeFloat64
	case "boolean", "Boolean":
		return schema.TypeBool
	case "Date", "LocalDate", "LocalDateTime":
		return schema.TypeDate
	case "BigDecimal":
		return schema.TypeDecimal
	}
	return schema.TypeOther
}
