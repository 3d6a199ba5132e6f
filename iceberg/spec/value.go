// Package spec is icecore's data model: the typed values, schemas, manifest
// entries, manifest-list entries, snapshots and table metadata that make up
// the Iceberg metadata hierarchy (spec.md §3). It has no I/O and no
// third-party dependency — it is the vocabulary every other package shares.
package spec

import (
	"fmt"

	"github.com/TFMV/icecore/pkg/errors"
)

// TypeID enumerates the partition-field scalar types icecore understands.
// Iceberg's date/time/timestamp(tz) types are all integer-encoded on the
// wire; icecore keeps them as distinct TypeIDs so schema construction and
// error messages stay precise, but stores them in the same integer field
// as Value.I64/I32.
type TypeID int

const (
	TypeBoolean TypeID = iota
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeDate          // int32 days since epoch
	TypeTime          // int64 microseconds since midnight
	TypeTimestamp     // int64 microseconds since epoch
	TypeTimestampTZ   // int64 microseconds since epoch, UTC
	TypeString
	TypeBinary
)

func (t TypeID) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeInt32:
		return "int"
	case TypeInt64:
		return "long"
	case TypeFloat32:
		return "float"
	case TypeFloat64:
		return "double"
	case TypeDate:
		return "date"
	case TypeTime:
		return "time"
	case TypeTimestamp:
		return "timestamp"
	case TypeTimestampTZ:
		return "timestamptz"
	case TypeString:
		return "string"
	case TypeBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Value is a single typed, possibly-null partition value. Exactly one of
// the scalar fields is meaningful, selected by Type; Null marks an absent
// value independent of the zero value of that field.
type Value struct {
	Type TypeID
	Null bool

	Bool  bool
	I32   int32
	I64   int64
	F32   float32
	F64   float64
	Str   string
	Bytes []byte
}

func NullValue(t TypeID) Value { return Value{Type: t, Null: true} }

func BoolValue(v bool) Value    { return Value{Type: TypeBoolean, Bool: v} }
func Int32Value(v int32) Value  { return Value{Type: TypeInt32, I32: v} }
func Int64Value(v int64) Value  { return Value{Type: TypeInt64, I64: v} }
func Float32Value(v float32) Value { return Value{Type: TypeFloat32, F32: v} }
func Float64Value(v float64) Value { return Value{Type: TypeFloat64, F64: v} }
func StringValue(v string) Value   { return Value{Type: TypeString, Str: v} }
func BinaryValue(v []byte) Value   { return Value{Type: TypeBinary, Bytes: v} }
func DateValue(days int32) Value        { return Value{Type: TypeDate, I32: days} }
func TimeValue(micros int64) Value      { return Value{Type: TypeTime, I64: micros} }
func TimestampValue(micros int64) Value { return Value{Type: TypeTimestamp, I64: micros} }
func TimestampTZValue(micros int64) Value { return Value{Type: TypeTimestampTZ, I64: micros} }

// Compare returns -1, 0 or 1 for a<b, a==b, a>b under each scalar type's
// natural order. Null values sort before any non-null value of the same
// type ("all-null" is the minimum). Mismatched types or incomparable
// dynamic types (spec.md §4.D) are a Conversion error.
func Compare(a, b Value) (int, error) {
	if a.Type != b.Type {
		return 0, errors.Newf(errors.Conversion, "cannot compare partition values of different types: %s vs %s", a.Type, b.Type)
	}
	if a.Null || b.Null {
		switch {
		case a.Null && b.Null:
			return 0, nil
		case a.Null:
			return -1, nil
		default:
			return 1, nil
		}
	}
	switch a.Type {
	case TypeBoolean:
		return compareBool(a.Bool, b.Bool), nil
	case TypeInt32, TypeDate:
		return compareOrdered(a.I32, b.I32), nil
	case TypeInt64, TypeTime, TypeTimestamp, TypeTimestampTZ:
		return compareOrdered(a.I64, b.I64), nil
	case TypeFloat32:
		return compareOrdered(a.F32, b.F32), nil
	case TypeFloat64:
		return compareOrdered(a.F64, b.F64), nil
	case TypeString:
		return compareOrdered(a.Str, b.Str), nil
	case TypeBinary:
		return compareBytes(a.Bytes, b.Bytes), nil
	default:
		return 0, errors.Newf(errors.Conversion, "type %s has no natural order", a.Type)
	}
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

type ordered interface {
	~int32 | ~int64 | ~float32 | ~float64 | ~string
}

func compareOrdered[T ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return compareOrdered(int64(len(a)), int64(len(b)))
}

// Min returns whichever of a, b compares smaller.
func Min(a, b Value) (Value, error) {
	c, err := Compare(a, b)
	if err != nil {
		return Value{}, err
	}
	if c <= 0 {
		return a, nil
	}
	return b, nil
}

// Max returns whichever of a, b compares larger.
func Max(a, b Value) (Value, error) {
	c, err := Compare(a, b)
	if err != nil {
		return Value{}, err
	}
	if c >= 0 {
		return a, nil
	}
	return b, nil
}

// Midpoint returns an approximate midpoint between two values of the same
// numeric type; the result keeps the inputs' type. Non-numeric types have
// no midpoint.
func Midpoint(a, b Value) (Value, error) {
	if a.Type != b.Type {
		return Value{}, errors.Newf(errors.Conversion, "cannot take midpoint of %s and %s", a.Type, b.Type)
	}
	switch a.Type {
	case TypeInt32, TypeDate:
		return Value{Type: a.Type, I32: a.I32 + (b.I32-a.I32)/2}, nil
	case TypeInt64, TypeTime, TypeTimestamp, TypeTimestampTZ:
		return Value{Type: a.Type, I64: a.I64 + (b.I64-a.I64)/2}, nil
	case TypeFloat32:
		return Float32Value(a.F32 + (b.F32-a.F32)/2), nil
	case TypeFloat64:
		return Float64Value(a.F64 + (b.F64-a.F64)/2), nil
	default:
		return Value{}, errors.Newf(errors.NotSupported, "type %s has no midpoint", a.Type)
	}
}

func (v Value) String() string {
	if v.Null {
		return "null"
	}
	switch v.Type {
	case TypeBoolean:
		return fmt.Sprint(v.Bool)
	case TypeInt32, TypeDate:
		return fmt.Sprint(v.I32)
	case TypeInt64, TypeTime, TypeTimestamp, TypeTimestampTZ:
		return fmt.Sprint(v.I64)
	case TypeFloat32:
		return fmt.Sprint(v.F32)
	case TypeFloat64:
		return fmt.Sprint(v.F64)
	case TypeString:
		return v.Str
	case TypeBinary:
		return fmt.Sprintf("%x", v.Bytes)
	default:
		return "?"
	}
}
