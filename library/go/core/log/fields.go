package log

import (
	"time"
)

// DefaultErrorFieldName is the default field name used for errors
const DefaultErrorFieldName = "error"

// FieldType is a type of data Field can represent
type FieldType int

const (
	// FieldTypeNil is for a pure nil
	FieldTypeNil FieldType = iota
	// FieldTypeString is for a string
	FieldTypeString
	// FieldTypeStrings is for a slice of strings
	FieldTypeStrings
	// FieldTypeBoolean is for boolean
	FieldTypeBoolean
	// FieldTypeSigned is for signed integers
	FieldTypeSigned
	// FieldTypeUnsigned is for unsigned integers
	FieldTypeUnsigned
	// FieldTypeDuration is for time.Duration
	FieldTypeDuration
	// FieldTypeError is for an error
	FieldTypeError
	// FieldTypeAny is for any type
	FieldTypeAny
)

// Field stores one structured logging field
type Field struct {
	key      string
	ftype    FieldType
	string   string
	signed   int64
	unsigned uint64
	iface    any
}

// Key returns field key
func (f Field) Key() string { return f.key }

// Type returns field type
func (f Field) Type() FieldType { return f.ftype }

// String returns field string
func (f Field) String() string { return f.string }

// Bool returns field bool
func (f Field) Bool() bool { return f.signed != 0 }

// Signed returns field int64
func (f Field) Signed() int64 { return f.signed }

// Unsigned returns field uint64
func (f Field) Unsigned() uint64 { return f.unsigned }

// Duration returns field time.Duration
func (f Field) Duration() time.Duration { return time.Duration(f.signed) }

// Error returns field error
func (f Field) Error() error {
	if f.iface == nil {
		return nil
	}

	return f.iface.(error)
}

// Interface returns field interface
func (f Field) Interface() any { return f.iface }

// Strings returns field []string
func (f Field) Strings() []string {
	if f.iface == nil {
		return nil
	}

	return f.iface.([]string)
}

// Nil constructs field of nil type
func Nil(key string) Field {
	return Field{key: key, ftype: FieldTypeNil}
}

// String constructs field with string value
func String(key, value string) Field {
	return Field{key: key, ftype: FieldTypeString, string: value}
}

// Strings constructs field with []string value
func Strings(key string, value []string) Field {
	return Field{key: key, ftype: FieldTypeStrings, iface: value}
}

// Bool constructs field with bool value
func Bool(key string, value bool) Field {
	var b int64
	if value {
		b = 1
	}

	return Field{key: key, ftype: FieldTypeBoolean, signed: b}
}

// Int constructs field with int value
func Int(key string, value int) Field {
	return Field{key: key, ftype: FieldTypeSigned, signed: int64(value)}
}

// Int64 constructs field with int64 value
func Int64(key string, value int64) Field {
	return Field{key: key, ftype: FieldTypeSigned, signed: value}
}

// UInt32 constructs field with uint32 value
func UInt32(key string, value uint32) Field {
	return Field{key: key, ftype: FieldTypeUnsigned, unsigned: uint64(value)}
}

// Duration constructs field with time.Duration value
func Duration(key string, value time.Duration) Field {
	return Field{key: key, ftype: FieldTypeDuration, signed: int64(value)}
}

// NamedError constructs field of error type
func NamedError(key string, value error) Field {
	return Field{key: key, ftype: FieldTypeError, iface: value}
}

// Error constructs field of error type with the default key
func Error(value error) Field {
	return NamedError(DefaultErrorFieldName, value)
}

// Any tries to deduce the most fitting field type and falls back to FieldTypeAny
func Any(key string, value any) Field {
	switch v := value.(type) {
	case nil:
		return Nil(key)
	case string:
		return String(key, v)
	case []string:
		return Strings(key, v)
	case bool:
		return Bool(key, v)
	case int:
		return Int(key, v)
	case int64:
		return Int64(key, v)
	case uint32:
		return UInt32(key, v)
	case time.Duration:
		return Duration(key, v)
	case error:
		return NamedError(key, v)
	default:
		return Field{key: key, ftype: FieldTypeAny, iface: value}
	}
}
