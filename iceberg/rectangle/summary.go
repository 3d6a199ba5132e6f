package rectangle

import (
	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/pkg/errors"
)

// FromSummary reconstructs a Rectangle from a manifest list entry's
// per-column FieldSummary slice (spec.md §4.G: "bounds = manifest...
// .map(summary_to_rectangle)"). A nil LowerBound/UpperBound — an
// all-null column — widens to the type's null value on both sides.
func FromSummary(summaries []spec.FieldSummary, types []spec.TypeID) (*Rectangle, error) {
	if len(summaries) != len(types) {
		return nil, errors.Newf(errors.TypeMismatch, "field summary count %d does not match partition column count %d", len(summaries), len(types))
	}
	min := make([]spec.Value, len(summaries))
	max := make([]spec.Value, len(summaries))
	for i, s := range summaries {
		if s.LowerBound != nil {
			min[i] = *s.LowerBound
		} else {
			min[i] = spec.NullValue(types[i])
		}
		if s.UpperBound != nil {
			max[i] = *s.UpperBound
		} else {
			max[i] = spec.NullValue(types[i])
		}
	}
	return &Rectangle{Min: min, Max: max}, nil
}

// ToSummary projects the rectangle back into FieldSummary form, for a
// manifest writer finalizing a ManifestListEntry header. containsNull
// reports, per column, whether any appended entry carried a null partition
// value for it.
func (r *Rectangle) ToSummary(containsNull []bool) ([]spec.FieldSummary, error) {
	if len(containsNull) != r.Dimensions() {
		return nil, errors.Newf(errors.TypeMismatch, "containsNull length %d does not match rectangle dimensions %d", len(containsNull), r.Dimensions())
	}
	out := make([]spec.FieldSummary, r.Dimensions())
	for i := range r.Min {
		lower, upper := r.Min[i], r.Max[i]
		out[i] = spec.FieldSummary{
			ContainsNull: containsNull[i],
			LowerBound:   &lower,
			UpperBound:   &upper,
		}
	}
	return out, nil
}
