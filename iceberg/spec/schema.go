package spec

import "github.com/TFMV/icecore/pkg/errors"

// SchemaField is one column of a Schema.
type SchemaField struct {
	ID       int
	Name     string
	Type     TypeID
	Required bool
}

// Schema is a table's (or a snapshot's) column schema.
type Schema struct {
	SchemaID int
	Fields   []SchemaField
}

// FieldByID looks up a column by its source-column id, as partition fields
// do to find the scalar type of the column they partition on.
func (s *Schema) FieldByID(id int) (*SchemaField, error) {
	for i := range s.Fields {
		if s.Fields[i].ID == id {
			return &s.Fields[i], nil
		}
	}
	return nil, errors.Newf(errors.NotFound, "schema %d has no field with id %d", s.SchemaID, id)
}

// MaxFieldID returns the highest field id in the schema, or -1 if it has
// no fields. The AddSchema operation and update do not record a
// last_column_id.
func (s *Schema) MaxFieldID() int {
	max := -1
	for _, f := range s.Fields {
		if f.ID > max {
			max = f.ID
		}
	}
	return max
}

// PartitionField is one column of a PartitionSpec: it names a transform
// applied to a source schema column.
type PartitionField struct {
	SourceID int
	FieldID  int
	Name     string
	Transform string
}

// PartitionSpec is the ordered list of partition transforms defining how
// data files are grouped (spec.md glossary). Ordering is significant:
// index 0 is the most significant partition dimension (spec.md §4.D).
type PartitionSpec struct {
	SpecID int
	Fields []PartitionField
}

// FieldNames returns the partition column names in spec order — the
// "partition_column_names" of spec.md §4.G, priority order index 0 first.
func (p *PartitionSpec) FieldNames() []string {
	names := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		names[i] = f.Name
	}
	return names
}

// SourceType resolves the scalar type of the schema column a partition
// field is derived from, needed by the manifest entry codec (spec.md §4.A)
// to build the partition-value record schema.
func (p *PartitionField) SourceType(schema *Schema) (TypeID, error) {
	f, err := schema.FieldByID(p.SourceID)
	if err != nil {
		return 0, err
	}
	return f.Type, nil
}
