// Package avro builds the Avro record schemas the manifest and
// manifest-list codecs (spec.md §4.A, §4.B, §4.C) read and write against,
// using github.com/hamba/avro/v2 — an icebox direct dependency the teacher
// never wired up (its own server/metadata/iceberg package JSON-encodes as a
// placeholder; see SPEC_FULL.md §2 and §3).
package avro

import (
	"fmt"
	"strings"

	"github.com/hamba/avro/v2"

	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/pkg/errors"
)

// avroType renders a partition-field scalar type as an Avro type, wrapping
// date/time/timestamp types in their logical-type annotation.
func avroType(t spec.TypeID) (string, error) {
	switch t {
	case spec.TypeBoolean:
		return `"boolean"`, nil
	case spec.TypeInt32:
		return `"int"`, nil
	case spec.TypeInt64:
		return `"long"`, nil
	case spec.TypeFloat32:
		return `"float"`, nil
	case spec.TypeFloat64:
		return `"double"`, nil
	case spec.TypeString:
		return `"string"`, nil
	case spec.TypeBinary:
		return `"bytes"`, nil
	case spec.TypeDate:
		return `{"type":"int","logicalType":"date"}`, nil
	case spec.TypeTime:
		return `{"type":"long","logicalType":"time-micros"}`, nil
	case spec.TypeTimestamp:
		return `{"type":"long","logicalType":"timestamp-micros"}`, nil
	case spec.TypeTimestampTZ:
		return `{"type":"long","logicalType":"timestamp-micros","adjust-to-utc":true}`, nil
	default:
		return "", errors.Newf(errors.NotSupported, "no avro encoding for partition type %s", t)
	}
}

// PartitionValueSchema builds the JSON schema for a manifest entry's
// partition-tuple record: one optional field per partition column, typed
// by looking up that column's source-schema type and marking it optional
// (spec.md §4.A — "Partition-value schema is built by looking up each
// partition field's source column type... and marking it optional").
func PartitionValueSchema(partitionFields []spec.PartitionField, schema *spec.Schema) (avro.Schema, error) {
	var b strings.Builder
	b.WriteString(`{"type":"record","name":"r_partition","fields":[`)
	for i, f := range partitionFields {
		srcType, err := f.SourceType(schema)
		if err != nil {
			return nil, err
		}
		fieldType, err := avroType(srcType)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"name":%q,"type":["null",%s],"default":null}`, f.Name, fieldType)
	}
	b.WriteString(`]}`)
	return avro.Parse(b.String())
}

func mapSchema(valueType string) string {
	return fmt.Sprintf(`{"type":"map","values":%s}`, valueType)
}

// dataFileSchema builds the record schema for a DataFile, embedding the
// partition schema built by PartitionValueSchema.
func dataFileSchema(partitionSchemaJSON string, formatVersion spec.FormatVersion) string {
	var b strings.Builder
	b.WriteString(`{"type":"record","name":"r_data_file","fields":[`)
	if formatVersion == spec.FormatVersionV2 {
		b.WriteString(`{"name":"content","type":"int"},`)
	}
	fmt.Fprintf(&b, `{"name":"file_path","type":"string"},`)
	b.WriteString(`{"name":"file_format","type":"string"},`)
	fmt.Fprintf(&b, `{"name":"partition","type":%s},`, partitionSchemaJSON)
	b.WriteString(`{"name":"record_count","type":"long"},`)
	b.WriteString(`{"name":"file_size_in_bytes","type":"long"},`)
	b.WriteString(`{"name":"column_sizes","type":["null",` + mapSchema(`"long"`) + `],"default":null},`)
	b.WriteString(`{"name":"value_counts","type":["null",` + mapSchema(`"long"`) + `],"default":null},`)
	b.WriteString(`{"name":"null_value_counts","type":["null",` + mapSchema(`"long"`) + `],"default":null},`)
	b.WriteString(`{"name":"nan_value_counts","type":["null",` + mapSchema(`"long"`) + `],"default":null},`)
	b.WriteString(`{"name":"lower_bounds","type":["null",` + mapSchema(`"bytes"`) + `],"default":null},`)
	b.WriteString(`{"name":"upper_bounds","type":["null",` + mapSchema(`"bytes"`) + `],"default":null},`)
	b.WriteString(`{"name":"key_metadata","type":["null","bytes"],"default":null},`)
	b.WriteString(`{"name":"split_offsets","type":["null",{"type":"array","items":"long"}],"default":null},`)
	if formatVersion == spec.FormatVersionV2 {
		b.WriteString(`{"name":"equality_ids","type":["null",{"type":"array","items":"int"}],"default":null},`)
	}
	b.WriteString(`{"name":"sort_order_id","type":["null","int"],"default":null}`)
	b.WriteString(`]}`)
	return b.String()
}

// ManifestEntrySchema derives the record schema for a manifest entry
// (spec.md §4.A), parameterized by the partition-tuple schema and the
// table's format version.
func ManifestEntrySchema(partitionSchema avro.Schema, formatVersion spec.FormatVersion) (avro.Schema, error) {
	dataFile := dataFileSchema(partitionSchema.String(), formatVersion)

	var b strings.Builder
	b.WriteString(`{"type":"record","name":"manifest_entry","fields":[`)
	b.WriteString(`{"name":"status","type":"int"},`)
	if formatVersion == spec.FormatVersionV1 {
		b.WriteString(`{"name":"snapshot_id","type":"long"},`)
	} else {
		b.WriteString(`{"name":"snapshot_id","type":["null","long"],"default":null},`)
		b.WriteString(`{"name":"sequence_number","type":["null","long"],"default":null},`)
		b.WriteString(`{"name":"file_sequence_number","type":["null","long"],"default":null},`)
	}
	fmt.Fprintf(&b, `{"name":"data_file","type":%s}`, dataFile)
	b.WriteString(`]}`)
	return avro.Parse(b.String())
}

// manifestListFieldsCommon are the fields common to both format versions.
const manifestListFieldsCommon = `
{"name":"manifest_path","type":"string"},
{"name":"manifest_length","type":"long"},
{"name":"partition_spec_id","type":"int"},
{"name":"added_snapshot_id","type":"long"},
{"name":"added_files_count","type":["null","int"],"default":null},
{"name":"existing_files_count","type":["null","int"],"default":null},
{"name":"deleted_files_count","type":["null","int"],"default":null},
{"name":"added_rows_count","type":["null","long"],"default":null},
{"name":"existing_rows_count","type":["null","long"],"default":null},
{"name":"deleted_rows_count","type":["null","long"],"default":null},
{"name":"partitions","type":["null",{"type":"array","items":{
	"type":"record","name":"r_field_summary","fields":[
		{"name":"contains_null","type":"boolean"},
		{"name":"contains_nan","type":["null","boolean"],"default":null},
		{"name":"lower_bound","type":["null","bytes"],"default":null},
		{"name":"upper_bound","type":["null","bytes"],"default":null}
	]}}],"default":null}`

// ManifestListSchemaV1 is the V1 manifest-list record schema.
func ManifestListSchemaV1() avro.Schema {
	schemaJSON := `{"type":"record","name":"manifest_file","fields":[` +
		manifestListFieldsCommon + `]}`
	s, err := avro.Parse(schemaJSON)
	if err != nil {
		panic(err) // schema is a compile-time constant; a parse failure is a programming error
	}
	return s
}

// ManifestListSchemaV2 is the V2 manifest-list record schema, adding
// sequence_number, min_sequence_number and content (spec.md §6).
func ManifestListSchemaV2() avro.Schema {
	schemaJSON := `{"type":"record","name":"manifest_file","fields":[` +
		`{"name":"content","type":"int"},` +
		`{"name":"sequence_number","type":"long"},` +
		`{"name":"min_sequence_number","type":"long"},` +
		manifestListFieldsCommon + `]}`
	s, err := avro.Parse(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// ManifestListSchema picks the schema for a table's format version
// (spec.md §4.C).
func ManifestListSchema(formatVersion spec.FormatVersion) avro.Schema {
	if formatVersion == spec.FormatVersionV1 {
		return ManifestListSchemaV1()
	}
	return ManifestListSchemaV2()
}
