package manifest

import (
	"strconv"

	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/pkg/errors"
)

// valueToNative unwraps a spec.Value into the bare Go value a generic Avro
// union field expects (nil for null).
func valueToNative(v spec.Value) (interface{}, error) {
	if v.Null {
		return nil, nil
	}
	switch v.Type {
	case spec.TypeBoolean:
		return v.Bool, nil
	case spec.TypeInt32, spec.TypeDate:
		return v.I32, nil
	case spec.TypeInt64, spec.TypeTime, spec.TypeTimestamp, spec.TypeTimestampTZ:
		return v.I64, nil
	case spec.TypeFloat32:
		return v.F32, nil
	case spec.TypeFloat64:
		return v.F64, nil
	case spec.TypeString:
		return v.Str, nil
	case spec.TypeBinary:
		return v.Bytes, nil
	default:
		return nil, errors.Newf(errors.NotSupported, "type %s has no wire encoding", v.Type)
	}
}

// nativeToValue rewraps a decoded Avro union value into a typed spec.Value,
// given the partition column's declared type (the wire map carries no type
// tag of its own).
func nativeToValue(raw interface{}, t spec.TypeID) (spec.Value, error) {
	if raw == nil {
		return spec.NullValue(t), nil
	}
	switch t {
	case spec.TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return spec.Value{}, errors.Newf(errors.Conversion, "expected bool, got %T", raw)
		}
		return spec.BoolValue(b), nil
	case spec.TypeInt32:
		i, ok := raw.(int32)
		if !ok {
			return spec.Value{}, errors.Newf(errors.Conversion, "expected int32, got %T", raw)
		}
		return spec.Int32Value(i), nil
	case spec.TypeDate:
		i, ok := raw.(int32)
		if !ok {
			return spec.Value{}, errors.Newf(errors.Conversion, "expected int32 date, got %T", raw)
		}
		return spec.DateValue(i), nil
	case spec.TypeInt64:
		i, ok := raw.(int64)
		if !ok {
			return spec.Value{}, errors.Newf(errors.Conversion, "expected int64, got %T", raw)
		}
		return spec.Int64Value(i), nil
	case spec.TypeTime:
		i, ok := raw.(int64)
		if !ok {
			return spec.Value{}, errors.Newf(errors.Conversion, "expected int64 time, got %T", raw)
		}
		return spec.TimeValue(i), nil
	case spec.TypeTimestamp:
		i, ok := raw.(int64)
		if !ok {
			return spec.Value{}, errors.Newf(errors.Conversion, "expected int64 timestamp, got %T", raw)
		}
		return spec.TimestampValue(i), nil
	case spec.TypeTimestampTZ:
		i, ok := raw.(int64)
		if !ok {
			return spec.Value{}, errors.Newf(errors.Conversion, "expected int64 timestamptz, got %T", raw)
		}
		return spec.TimestampTZValue(i), nil
	case spec.TypeFloat32:
		f, ok := raw.(float32)
		if !ok {
			return spec.Value{}, errors.Newf(errors.Conversion, "expected float32, got %T", raw)
		}
		return spec.Float32Value(f), nil
	case spec.TypeFloat64:
		f, ok := raw.(float64)
		if !ok {
			return spec.Value{}, errors.Newf(errors.Conversion, "expected float64, got %T", raw)
		}
		return spec.Float64Value(f), nil
	case spec.TypeString:
		s, ok := raw.(string)
		if !ok {
			return spec.Value{}, errors.Newf(errors.Conversion, "expected string, got %T", raw)
		}
		return spec.StringValue(s), nil
	case spec.TypeBinary:
		b, ok := raw.([]byte)
		if !ok {
			return spec.Value{}, errors.Newf(errors.Conversion, "expected []byte, got %T", raw)
		}
		return spec.BinaryValue(b), nil
	default:
		return spec.Value{}, errors.Newf(errors.NotSupported, "type %s has no wire decoding", t)
	}
}

// structToPartitionMap converts a partition Struct to the wire's
// name-keyed generic map, in partition-spec order.
func structToPartitionMap(s spec.Struct, fields []spec.PartitionField) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		v, ok := s[f.Name]
		if !ok {
			return nil, errors.Newf(errors.NotFound, "partition struct missing field %q", f.Name)
		}
		native, err := valueToNative(v)
		if err != nil {
			return nil, err
		}
		out[f.Name] = native
	}
	return out, nil
}

// partitionMapToStruct is structToPartitionMap's inverse, resolving each
// column's declared type from the table schema via the partition spec.
func partitionMapToStruct(m map[string]interface{}, fields []spec.PartitionField, schema *spec.Schema) (spec.Struct, error) {
	out := make(spec.Struct, len(fields))
	for _, f := range fields {
		srcType, err := f.SourceType(schema)
		if err != nil {
			return nil, err
		}
		v, err := nativeToValue(m[f.Name], srcType)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func intMapToStringMap[V any](m map[int]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[strconv.Itoa(k)] = v
	}
	return out
}

func stringMapToIntMap[V any](m map[string]V) (map[int]V, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[int]V, len(m))
	for k, v := range m {
		i, err := strconv.Atoi(k)
		if err != nil {
			return nil, errors.Wrapf(errors.InvalidFormat, err, "non-integer column id key %q", k)
		}
		out[i] = v
	}
	return out, nil
}

func intSliceToInt32Slice(in []int) []int32 {
	if in == nil {
		return nil
	}
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}

func int32SliceToIntSlice(in []int32) []int {
	if in == nil {
		return nil
	}
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}

func toWireDataFileV2(df spec.DataFile, fields []spec.PartitionField) (wireDataFileV2, error) {
	partition, err := structToPartitionMap(df.Partition, fields)
	if err != nil {
		return wireDataFileV2{}, err
	}
	return wireDataFileV2{
		Content:         int32(df.Content),
		FilePath:        df.FilePath,
		FileFormat:      df.FileFormat,
		Partition:       partition,
		RecordCount:     df.RecordCount,
		FileSizeInBytes: df.FileSizeInBytes,
		ColumnSizes:     intMapToStringMap(df.ColumnSizes),
		ValueCounts:     intMapToStringMap(df.ValueCounts),
		NullValueCounts: intMapToStringMap(df.NullValueCounts),
		NaNValueCounts:  intMapToStringMap(df.NaNValueCounts),
		LowerBounds:     intMapToStringMap(df.LowerBounds),
		UpperBounds:     intMapToStringMap(df.UpperBounds),
		KeyMetadata:     df.KeyMetadata,
		SplitOffsets:    df.SplitOffsets,
		EqualityIDs:     intSliceToInt32Slice(df.EqualityIDs),
		SortOrderID:     df.SortOrderID,
	}, nil
}

func fromWireDataFileV2(w wireDataFileV2, fields []spec.PartitionField, schema *spec.Schema) (spec.DataFile, error) {
	partition, err := partitionMapToStruct(w.Partition, fields, schema)
	if err != nil {
		return spec.DataFile{}, err
	}
	columnSizes, err := stringMapToIntMap(w.ColumnSizes)
	if err != nil {
		return spec.DataFile{}, err
	}
	valueCounts, err := stringMapToIntMap(w.ValueCounts)
	if err != nil {
		return spec.DataFile{}, err
	}
	nullValueCounts, err := stringMapToIntMap(w.NullValueCounts)
	if err != nil {
		return spec.DataFile{}, err
	}
	nanValueCounts, err := stringMapToIntMap(w.NaNValueCounts)
	if err != nil {
		return spec.DataFile{}, err
	}
	lowerBounds, err := stringMapToIntMap(w.LowerBounds)
	if err != nil {
		return spec.DataFile{}, err
	}
	upperBounds, err := stringMapToIntMap(w.UpperBounds)
	if err != nil {
		return spec.DataFile{}, err
	}
	return spec.DataFile{
		Content:         spec.Content(w.Content),
		FilePath:        w.FilePath,
		FileFormat:      w.FileFormat,
		Partition:       partition,
		RecordCount:     w.RecordCount,
		FileSizeInBytes: w.FileSizeInBytes,
		ColumnSizes:     columnSizes,
		ValueCounts:     valueCounts,
		NullValueCounts: nullValueCounts,
		NaNValueCounts:  nanValueCounts,
		LowerBounds:     lowerBounds,
		UpperBounds:     upperBounds,
		KeyMetadata:     w.KeyMetadata,
		SplitOffsets:    w.SplitOffsets,
		EqualityIDs:     int32SliceToIntSlice(w.EqualityIDs),
		SortOrderID:     w.SortOrderID,
	}, nil
}

func toWireDataFileV1(df spec.DataFile, fields []spec.PartitionField) (wireDataFileV1, error) {
	partition, err := structToPartitionMap(df.Partition, fields)
	if err != nil {
		return wireDataFileV1{}, err
	}
	return wireDataFileV1{
		FilePath:        df.FilePath,
		FileFormat:      df.FileFormat,
		Partition:       partition,
		RecordCount:     df.RecordCount,
		FileSizeInBytes: df.FileSizeInBytes,
		ColumnSizes:     intMapToStringMap(df.ColumnSizes),
		ValueCounts:     intMapToStringMap(df.ValueCounts),
		NullValueCounts: intMapToStringMap(df.NullValueCounts),
		NaNValueCounts:  intMapToStringMap(df.NaNValueCounts),
		LowerBounds:     intMapToStringMap(df.LowerBounds),
		UpperBounds:     intMapToStringMap(df.UpperBounds),
		KeyMetadata:     df.KeyMetadata,
		SplitOffsets:    df.SplitOffsets,
		SortOrderID:     df.SortOrderID,
	}, nil
}

func fromWireDataFileV1(w wireDataFileV1, fields []spec.PartitionField, schema *spec.Schema) (spec.DataFile, error) {
	partition, err := partitionMapToStruct(w.Partition, fields, schema)
	if err != nil {
		return spec.DataFile{}, err
	}
	columnSizes, err := stringMapToIntMap(w.ColumnSizes)
	if err != nil {
		return spec.DataFile{}, err
	}
	valueCounts, err := stringMapToIntMap(w.ValueCounts)
	if err != nil {
		return spec.DataFile{}, err
	}
	nullValueCounts, err := stringMapToIntMap(w.NullValueCounts)
	if err != nil {
		return spec.DataFile{}, err
	}
	nanValueCounts, err := stringMapToIntMap(w.NaNValueCounts)
	if err != nil {
		return spec.DataFile{}, err
	}
	lowerBounds, err := stringMapToIntMap(w.LowerBounds)
	if err != nil {
		return spec.DataFile{}, err
	}
	upperBounds, err := stringMapToIntMap(w.UpperBounds)
	if err != nil {
		return spec.DataFile{}, err
	}
	return spec.DataFile{
		Content:         spec.ContentData,
		FilePath:        w.FilePath,
		FileFormat:      w.FileFormat,
		Partition:       partition,
		RecordCount:     w.RecordCount,
		FileSizeInBytes: w.FileSizeInBytes,
		ColumnSizes:     columnSizes,
		ValueCounts:     valueCounts,
		NullValueCounts: nullValueCounts,
		NaNValueCounts:  nanValueCounts,
		LowerBounds:     lowerBounds,
		UpperBounds:     upperBounds,
		KeyMetadata:     w.KeyMetadata,
		SplitOffsets:    w.SplitOffsets,
		SortOrderID:     w.SortOrderID,
	}, nil
}

func toWireEntryV2(e spec.ManifestEntry, fields []spec.PartitionField) (wireEntryV2, error) {
	df, err := toWireDataFileV2(e.DataFile, fields)
	if err != nil {
		return wireEntryV2{}, err
	}
	return wireEntryV2{
		Status:             int32(e.Status),
		SnapshotID:         e.SnapshotID,
		SequenceNumber:     e.SequenceNumber,
		FileSequenceNumber: e.FileSequenceNumber,
		DataFile:           df,
	}, nil
}

func fromWireEntryV2(w wireEntryV2, fields []spec.PartitionField, schema *spec.Schema) (spec.ManifestEntry, error) {
	df, err := fromWireDataFileV2(w.DataFile, fields, schema)
	if err != nil {
		return spec.ManifestEntry{}, err
	}
	return spec.ManifestEntry{
		Status:             spec.Status(w.Status),
		SnapshotID:         w.SnapshotID,
		SequenceNumber:     w.SequenceNumber,
		FileSequenceNumber: w.FileSequenceNumber,
		DataFile:           df,
	}, nil
}

func toWireEntryV1(e spec.ManifestEntry, fields []spec.PartitionField) (wireEntryV1, error) {
	df, err := toWireDataFileV1(e.DataFile, fields)
	if err != nil {
		return wireEntryV1{}, err
	}
	var snapshotID int64
	if e.SnapshotID != nil {
		snapshotID = *e.SnapshotID
	}
	return wireEntryV1{
		Status:     int32(e.Status),
		SnapshotID: snapshotID,
		DataFile:   df,
	}, nil
}

func fromWireEntryV1(w wireEntryV1, fields []spec.PartitionField, schema *spec.Schema) (spec.ManifestEntry, error) {
	df, err := fromWireDataFileV1(w.DataFile, fields, schema)
	if err != nil {
		return spec.ManifestEntry{}, err
	}
	snapshotID := w.SnapshotID
	return spec.ManifestEntry{
		Status:     spec.Status(w.Status),
		SnapshotID: &snapshotID,
		DataFile:   df,
	}, nil
}
