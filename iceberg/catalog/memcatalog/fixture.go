package memcatalog

import (
	"github.com/tidwall/gjson"

	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/pkg/errors"
)

// LoadFixture parses a REST-catalog-shaped table metadata JSON document
// (the same shape a real Iceberg REST catalog's LoadTable response body
// carries) into a *spec.TableMetadata, for seeding a Catalog from a test
// fixture instead of constructing one field by field. Only the subset of
// the REST shape icecore's TableMetadata tracks is read; everything else
// in the document is ignored.
func LoadFixture(jsonDoc []byte) (*spec.TableMetadata, error) {
	if !gjson.ValidBytes(jsonDoc) {
		return nil, errors.New(errors.InvalidFormat, "fixture is not valid JSON")
	}
	root := gjson.ParseBytes(jsonDoc)

	formatVersion := spec.FormatVersionV2
	if v := root.Get("format-version"); v.Exists() {
		formatVersion = spec.FormatVersion(v.Int())
	}

	m := &spec.TableMetadata{
		FormatVersion:   formatVersion,
		Location:        root.Get("location").String(),
		CurrentSchemaID: int(root.Get("current-schema-id").Int()),
		DefaultSpecID:   int(root.Get("default-spec-id").Int()),
		Snapshots:       make(map[int64]*spec.Snapshot),
		Refs:            make(map[string]*spec.SnapshotReference),
		Properties:      make(map[string]string),
	}

	root.Get("schemas").ForEach(func(_, s gjson.Result) bool {
		schema := &spec.Schema{SchemaID: int(s.Get("schema-id").Int())}
		s.Get("fields").ForEach(func(_, f gjson.Result) bool {
			schema.Fields = append(schema.Fields, spec.SchemaField{
				ID:       int(f.Get("id").Int()),
				Name:     f.Get("name").String(),
				Type:     fieldType(f.Get("type").String()),
				Required: f.Get("required").Bool(),
			})
			return true
		})
		m.Schemas = append(m.Schemas, schema)
		return true
	})

	root.Get("partition-specs").ForEach(func(_, p gjson.Result) bool {
		ps := &spec.PartitionSpec{SpecID: int(p.Get("spec-id").Int())}
		p.Get("fields").ForEach(func(_, f gjson.Result) bool {
			ps.Fields = append(ps.Fields, spec.PartitionField{
				SourceID:  int(f.Get("source-id").Int()),
				FieldID:   int(f.Get("field-id").Int()),
				Name:      f.Get("name").String(),
				Transform: f.Get("transform").String(),
			})
			return true
		})
		m.PartitionSpecs = append(m.PartitionSpecs, ps)
		return true
	})

	root.Get("properties").ForEach(func(key, value gjson.Result) bool {
		m.Properties[key.String()] = value.String()
		return true
	})

	return m, nil
}

func fieldType(name string) spec.TypeID {
	switch name {
	case "boolean":
		return spec.TypeBoolean
	case "int":
		return spec.TypeInt32
	case "long":
		return spec.TypeInt64
	case "float":
		return spec.TypeFloat32
	case "double":
		return spec.TypeFloat64
	case "date":
		return spec.TypeDate
	case "time":
		return spec.TypeTime
	case "timestamp":
		return spec.TypeTimestamp
	case "timestamptz":
		return spec.TypeTimestampTZ
	case "binary":
		return spec.TypeBinary
	default:
		return spec.TypeString
	}
}
