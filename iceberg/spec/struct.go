package spec

import "github.com/TFMV/icecore/pkg/errors"

// Struct is an ordered tuple of typed partition values, indexable by field
// name (spec.md §3 "Partition Struct").
type Struct map[string]Value

// ToVector extracts values from the struct in the given column-name order,
// the conversion the operation executor applies to every incoming file's
// partition struct before folding it into a bounding rectangle (spec.md
// §4.G, "partition_struct_to_vec" in the original implementation).
func (s Struct) ToVector(columnNames []string) ([]Value, error) {
	out := make([]Value, len(columnNames))
	for i, name := range columnNames {
		v, ok := s[name]
		if !ok {
			return nil, errors.Newf(errors.NotFound, "partition struct is missing column %q", name)
		}
		out[i] = v
	}
	return out, nil
}
