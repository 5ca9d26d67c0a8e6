package schema

import (
	"database/sql"
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"time"
	"unicode"
)

var (
	timeType       = reflect.TypeOf(time.Time{})
	bigFloatType   = reflect.TypeOf(big.Float{})
	bigRatType     = reflect.TypeOf(big.Rat{})
	nullStringType = reflect.TypeOf(sql.NullString{})
	nullInt16Type  = reflect.TypeOf(sql.NullInt16{})
	nullInt32Type  = reflect.TypeOf(sql.NullInt32{})
	nullInt64Type  = reflect.TypeOf(sql.NullInt64{})
	nullFloatType  = reflect.TypeOf(sql.NullFloat64{})
	nullBoolType   = reflect.TypeOf(sql.NullBool{})
	nullTimeType   = reflect.TypeOf(sql.NullTime{})
)

// FromStruct describes a Go struct (or pointer to one) as an Entity.
//
// Exported fields become Field descriptors in declaration order; unexported
// fields are ignored. Field names go through FieldName. A `ddl:"-"` or
// `db:"-"` tag marks a field as excluded and a `comment:"..."` tag supplies
// its comment. The first embedded struct is described recursively and
// becomes the entity's Parent; only that one level is honoured, deeper
// embedding is flattened into the parent and later embedded structs
// contribute their fields directly.
func FromStruct(v any) (Entity, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return Entity{}, fmt.Errorf("schema: FromStruct: want struct, got %T", v)
	}

	e := Entity{Name: t.Name(), Qualified: t.String()}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && derefStruct(sf.Type) {
			p, err := FromStruct(reflect.New(deref(sf.Type)).Interface())
			if err != nil {
				return Entity{}, err
			}
			p.Fields = append(p.Fields, flattenParent(p.Parent)...)
			p.Parent = nil
			if e.Parent == nil {
				e.Parent = &p
			} else {
				e.Fields = append(e.Fields, p.Fields...)
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		e.Fields = append(e.Fields, Field{
			Name:     FieldName(sf),
			Type:     SemanticTypeOf(sf.Type),
			Excluded: sf.Tag.Get("ddl") == "-" || sf.Tag.Get("db") == "-",
			Comment:  sf.Tag.Get("comment"),
		})
	}
	return e, nil
}

// FieldName returns the declared name used for a struct field: the `ddl`
// tag when it names the field, otherwise the Go name in lowerCamel form with
// initialisms folded ("ID" -> "id", "UserID" -> "userId"), so that column
// names derive the same way they do for camelCase declarations.
func FieldName(sf reflect.StructField) string {
	if tag := sf.Tag.Get("ddl"); tag != "" && tag != "-" {
		return tag
	}
	return lowerCamel(sf.Name)
}

func lowerCamel(name string) string {
	rs := []rune(name)
	var b strings.Builder
	b.Grow(len(name))
	word := 0
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(rs[i-1])
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if prevLower || (unicode.IsUpper(rs[i-1]) && nextLower) {
				word++
				b.WriteRune(unicode.ToUpper(r))
				continue
			}
		}
		if word == 0 || (i > 0 && !unicode.IsLower(rs[i-1]) && !unicode.IsDigit(rs[i-1]) && unicode.IsUpper(r)) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func flattenParent(p *Entity) []Field {
	if p == nil {
		return nil
	}
	return append(append([]Field(nil), p.Fields...), flattenParent(p.Parent)...)
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func derefStruct(t reflect.Type) bool {
	t = deref(t)
	return t.Kind() == reflect.Struct && !isValueStruct(t)
}

// isValueStruct reports struct types that are scalar values rather than
// an embedded parent (time.Time, sql.Null*, big numbers).
func isValueStruct(t reflect.Type) bool {
	return SemanticTypeOf(t) != TypeOther
}

// SemanticTypeOf classifies a Go type. Pointers are dereferenced so that
// optional fields (*string, *time.Time) classify like their element type.
func SemanticTypeOf(t reflect.Type) SemanticType {
	t = deref(t)
	switch t {
	case timeType, nullTimeType:
		return TypeDate
	case bigFloatType, bigRatType:
		return TypeDecimal
	case nullStringType:
		return TypeText
	case nullInt16Type, nullInt32Type:
		return TypeInt32
	case nullInt64Type:
		return TypeInt64
	case nullFloatType:
		return TypeFloat64
	case nullBoolType:
		return TypeBool
	}
	if t.Kind() == reflect.Struct && strings.EqualFold(t.Name(), "Decimal") {
		return TypeDecimal
	}
	switch t.Kind() {
	case reflect.String:
		return TypeText
	case reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return TypeInt32
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		return TypeInt64
	case reflect.Float32, reflect.Float64:
		return TypeFloat64
	case reflect.Bool:
		return TypeBool
	}
	return TypeOther
}
