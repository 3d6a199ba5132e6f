// Package manifestlist reads and writes manifest lists: the Avro object
// container file that inventories every manifest belonging to one snapshot
// (spec.md §4.C), built over github.com/hamba/avro/v2/ocf the same way
// iceberg/manifest is.
package manifestlist

import (
	"encoding/binary"
	"math"

	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/pkg/errors"
)

// encodeBound serializes a single partition value to Iceberg's
// single-value binary encoding (little-endian fixed-width for numeric
// types, raw bytes for string/binary) for storage in a FieldSummary's
// lower_bound/upper_bound field.
func encodeBound(v spec.Value) ([]byte, error) {
	if v.Null {
		return nil, nil
	}
	switch v.Type {
	case spec.TypeBoolean:
		if v.Bool {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case spec.TypeInt32, spec.TypeDate:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(v.I32))
		return b, nil
	case spec.TypeInt64, spec.TypeTime, spec.TypeTimestamp, spec.TypeTimestampTZ:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(v.I64))
		return b, nil
	case spec.TypeFloat32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, math.Float32bits(v.F32))
		return b, nil
	case spec.TypeFloat64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, math.Float64bits(v.F64))
		return b, nil
	case spec.TypeString:
		return []byte(v.Str), nil
	case spec.TypeBinary:
		return v.Bytes, nil
	default:
		return nil, errors.Newf(errors.NotSupported, "type %s has no bound encoding", v.Type)
	}
}

// decodeBound is encodeBound's inverse, given the declared type of the
// partition column the bound belongs to.
func decodeBound(b []byte, t spec.TypeID) (*spec.Value, error) {
	if b == nil {
		return nil, nil
	}
	var v spec.Value
	switch t {
	case spec.TypeBoolean:
		v = spec.BoolValue(len(b) > 0 && b[0] != 0)
	case spec.TypeInt32:
		if len(b) != 4 {
			return nil, errors.Newf(errors.InvalidFormat, "int32 bound must be 4 bytes, got %d", len(b))
		}
		v = spec.Int32Value(int32(binary.LittleEndian.Uint32(b)))
	case spec.TypeDate:
		if len(b) != 4 {
			return nil, errors.Newf(errors.InvalidFormat, "date bound must be 4 bytes, got %d", len(b))
		}
		v = spec.DateValue(int32(binary.LittleEndian.Uint32(b)))
	case spec.TypeInt64:
		if len(b) != 8 {
			return nil, errors.Newf(errors.InvalidFormat, "int64 bound must be 8 bytes, got %d", len(b))
		}
		v = spec.Int64Value(int64(binary.LittleEndian.Uint64(b)))
	case spec.TypeTime:
		if len(b) != 8 {
			return nil, errors.Newf(errors.InvalidFormat, "time bound must be 8 bytes, got %d", len(b))
		}
		v = spec.TimeValue(int64(binary.LittleEndian.Uint64(b)))
	case spec.TypeTimestamp:
		if len(b) != 8 {
			return nil, errors.Newf(errors.InvalidFormat, "timestamp bound must be 8 bytes, got %d", len(b))
		}
		v = spec.TimestampValue(int64(binary.LittleEndian.Uint64(b)))
	case spec.TypeTimestampTZ:
		if len(b) != 8 {
			return nil, errors.Newf(errors.InvalidFormat, "timestamptz bound must be 8 bytes, got %d", len(b))
		}
		v = spec.TimestampTZValue(int64(binary.LittleEndian.Uint64(b)))
	case spec.TypeFloat32:
		if len(b) != 4 {
			return nil, errors.Newf(errors.InvalidFormat, "float32 bound must be 4 bytes, got %d", len(b))
		}
		v = spec.Float32Value(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case spec.TypeFloat64:
		if len(b) != 8 {
			return nil, errors.Newf(errors.InvalidFormat, "float64 bound must be 8 bytes, got %d", len(b))
		}
		v = spec.Float64Value(math.Float64frombits(binary.LittleEndian.Uint64(b)))
	case spec.TypeString:
		v = spec.StringValue(string(b))
	case spec.TypeBinary:
		v = spec.BinaryValue(b)
	default:
		return nil, errors.Newf(errors.NotSupported, "type %s has no bound decoding", t)
	}
	return &v, nil
}
