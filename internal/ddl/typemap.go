package ddl

import (
	"strings"

	"schemagen/internal/schema"
)

// SQL types produced by MapType.
const (
	TypeShortText = "varchar(32)"
	TypeText      = "varchar(255)"
	TypeTinyInt   = "tinyint(4)"
	TypeInt       = "int(11)"
	TypeBigInt    = "bigint(20)"
	TypeDouble    = "double(20,2)"
	TypeBoolean   = "boolean"
	TypeDateTime  = "datetime"
	TypeDecimal   = "decimal(20,2)"
)

// tinyintWords are int32 column names that hold small enumerations.
var tinyintWords = map[string]struct{}{
	"deleted": {},
	"sex":     {},
	"age":     {},
	"status":  {},
	"type":    {},
	"state":   {},
}

// MapType returns the SQL type for a field. ok is false when the field must
// not become a column: it is excluded, or its semantic type has no mapping.
//
// The policy is name-sensitive: flag-like and enum-like names ("is_*",
// "*type", "*status") get narrow types.
func MapType(f schema.Field) (sqlType string, ok bool) {
	if f.Excluded {
		return "", false
	}
	name := SQLName(f.Name)
	switch f.Type {
	case schema.TypeText:
		if isFlagOrEnum(name) {
			return TypeShortText, true
		}
		return TypeText, true
	case schema.TypeInt32:
		if _, small := tinyintWords[name]; small || isFlagOrEnum(name) {
			return TypeTinyInt, true
		}
		return TypeInt, true
	case schema.TypeInt64:
		return TypeBigInt, true
	case schema.TypeFloat64:
		return TypeDouble, true
	case schema.TypeBool:
		return TypeBoolean, true
	case schema.TypeDate:
		return TypeDateTime, true
	case schema.TypeDecimal:
		return TypeDecimal, true
	default:
		return "", false
	}
}

// isFlagOrEnum matches boolean-like ("is_") and enum-like names.
func isFlagOrEnum(name string) bool {
	return strings.HasPrefix(name, "is_") ||
		strings.HasSuffix(name, "_type") ||
		strings.HasSuffix(name, "_status") ||
		strings.HasSuffix(name, "type") ||
		strings.HasSuffix(name, "status")
}

// isIntegerType reports the integer families that render as auto-increment
// when used as the primary key.
func isIntegerType(sqlType string) bool {
	return strings.HasPrefix(sqlType, "tinyint") ||
		strings.HasPrefix(sqlType, "int") ||
		strings.HasPrefix(sqlType, "bigint")
}
