package ddl

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"schemagen/internal/schema"
)

// FieldResolver turns an opaque field accessor into a declared field name.
// It returns "" when the accessor cannot be resolved; customizations treat
// that like any other unknown field and do nothing.
type FieldResolver func(accessor any) string

// ResolveName is the default resolver. It accepts a field name as a string
// (or fmt.Stringer) and understands the getter naming convention:
//
//	"userName"    -> "userName"
//	"getUserName" -> "userName"
//	"isDeleted"   -> "deleted"
//
// The "get"/"is" prefix is only dropped when an uppercase letter follows it,
// so "isolation" and "getaway" resolve to themselves.
func ResolveName(accessor any) string {
	var s string
	switch v := accessor.(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		return ""
	}
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"get", "is"} {
		rest, ok := strings.CutPrefix(s, prefix)
		if !ok || rest == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(rest)
		if unicode.IsUpper(r) {
			return string(unicode.ToLower(r)) + rest[size:]
		}
	}
	return s
}

// StructResolver resolves pointers to the fields of model, a pointer to a Go
// struct, into the names schema.FromStruct gives those fields:
//
//	var u User
//	t.WithResolver(ddl.StructResolver(&u)).SetKey(&u.Email)
//
// Fields of embedded structs resolve as well. Accessors that are not
// pointers into model fall back to ResolveName.
func StructResolver(model any) FieldResolver {
	base := reflect.ValueOf(model)
	if base.Kind() != reflect.Pointer || base.Elem().Kind() != reflect.Struct {
		return ResolveName
	}
	names := map[uintptr]map[reflect.Type]string{}
	indexFields(base.Elem(), names)

	return func(accessor any) string {
		v := reflect.ValueOf(accessor)
		if v.Kind() != reflect.Pointer || v.IsNil() {
			return ResolveName(accessor)
		}
		if byType, ok := names[v.Pointer()]; ok {
			if name, ok := byType[v.Type().Elem()]; ok {
				return name
			}
		}
		return ""
	}
}

// indexFields records the address and type of every exported field. The
// type is part of the key because a struct and its first field share an
// address.
func indexFields(v reflect.Value, names map[uintptr]map[reflect.Type]string) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)
		if sf.Anonymous && schema.SemanticTypeOf(sf.Type) == schema.TypeOther {
			if fv.Kind() == reflect.Pointer && !fv.IsNil() {
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				indexFields(fv, names)
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		addr := fv.Addr().Pointer()
		if names[addr] == nil {
			names[addr] = map[reflect.Type]string{}
		}
		names[addr][sf.Type] = schema.FieldName(sf)
	}
}
