// Package rectangle implements the N-dimensional partition bounding
// rectangle (spec.md §4.D): the componentwise min/max over a set of
// partition tuples, with a priority-ordered width comparison used by the
// manifest selector (§4.E) and split planner (§4.F) to pick "the smallest
// after-extend rectangle" and "the widest dimension" respectively.
//
// This is a pure in-memory value type with no I/O and no third-party
// dependency — see SPEC_FULL.md §6 for why it stays on the standard
// library: no corpus dependency models N-dimensional bounding-box
// arithmetic over a dynamically-typed tuple, this is the spec's own
// heuristic.
package rectangle

import (
	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/pkg/errors"
)

// Rectangle is the componentwise min/max of partition values over a set of
// entries (spec.md §3 "Rectangle"). Min and Max always have equal length,
// one component per partition field, in partition-spec priority order
// (index 0 most significant).
type Rectangle struct {
	Min []spec.Value
	Max []spec.Value
}

// New builds a Rectangle, assuming min <= max componentwise (spec.md §4.D).
func New(min, max []spec.Value) (*Rectangle, error) {
	if len(min) != len(max) {
		return nil, errors.Newf(errors.TypeMismatch, "rectangle min/max length mismatch: %d vs %d", len(min), len(max))
	}
	return &Rectangle{Min: min, Max: max}, nil
}

// FromPoint builds a degenerate rectangle whose min and max are both p —
// the starting point when folding the first file into a bounding box.
func FromPoint(p []spec.Value) *Rectangle {
	min := make([]spec.Value, len(p))
	max := make([]spec.Value, len(p))
	copy(min, p)
	copy(max, p)
	return &Rectangle{Min: min, Max: max}
}

func (r *Rectangle) Dimensions() int { return len(r.Min) }

// ExpandWithNode folds a single partition tuple into the rectangle:
// min = min(min, p); max = max(max, p) (spec.md §4.D).
func (r *Rectangle) ExpandWithNode(p []spec.Value) error {
	if len(p) != r.Dimensions() {
		return errors.Newf(errors.TypeMismatch, "partition tuple has %d dimensions, rectangle has %d", len(p), r.Dimensions())
	}
	for i, v := range p {
		min, err := spec.Min(r.Min[i], v)
		if err != nil {
			return err
		}
		max, err := spec.Max(r.Max[i], v)
		if err != nil {
			return err
		}
		r.Min[i], r.Max[i] = min, max
	}
	return nil
}

// Expand merges another rectangle into this one componentwise (spec.md
// §4.D).
func (r *Rectangle) Expand(other *Rectangle) error {
	if other.Dimensions() != r.Dimensions() {
		return errors.Newf(errors.TypeMismatch, "rectangle dimension mismatch: %d vs %d", r.Dimensions(), other.Dimensions())
	}
	for i := range r.Min {
		min, err := spec.Min(r.Min[i], other.Min[i])
		if err != nil {
			return err
		}
		max, err := spec.Max(r.Max[i], other.Max[i])
		if err != nil {
			return err
		}
		r.Min[i], r.Max[i] = min, max
	}
	return nil
}

// Contains reports whether a partition tuple falls within the rectangle's
// bounds on every dimension.
func (r *Rectangle) Contains(p []spec.Value) (bool, error) {
	if len(p) != r.Dimensions() {
		return false, errors.Newf(errors.TypeMismatch, "partition tuple has %d dimensions, rectangle has %d", len(p), r.Dimensions())
	}
	for i, v := range p {
		lo, err := spec.Compare(r.Min[i], v)
		if err != nil {
			return false, err
		}
		hi, err := spec.Compare(v, r.Max[i])
		if err != nil {
			return false, err
		}
		if lo > 0 || hi > 0 {
			return false, nil
		}
	}
	return true, nil
}

// Clone returns a deep copy, since ExpandWithNode/Expand mutate in place and
// the selector needs to try a candidate expansion without disturbing the
// original (spec.md §4.E: "expand by the incoming batch's rectangle to form
// a candidate after-extend rectangle").
func (r *Rectangle) Clone() *Rectangle {
	min := make([]spec.Value, len(r.Min))
	max := make([]spec.Value, len(r.Max))
	copy(min, r.Min)
	copy(max, r.Max)
	return &Rectangle{Min: min, Max: max}
}

// CmpWithPriority compares two rectangles along partition-field priority
// order: the first dimension in which they differ in width (max - min)
// decides, wider is "greater"; ties fall through to the next dimension;
// all-equal returns 0 (spec.md §4.D).
func (r *Rectangle) CmpWithPriority(other *Rectangle) (int, error) {
	if other.Dimensions() != r.Dimensions() {
		return 0, errors.Newf(errors.TypeMismatch, "rectangle dimension mismatch: %d vs %d", r.Dimensions(), other.Dimensions())
	}
	for i := range r.Min {
		w1, err := width(r.Min[i], r.Max[i])
		if err != nil {
			return 0, err
		}
		w2, err := width(other.Min[i], other.Max[i])
		if err != nil {
			return 0, err
		}
		switch {
		case w1 < w2:
			return -1, nil
		case w1 > w2:
			return 1, nil
		}
	}
	return 0, nil
}

// WidestDimension returns the index of the dimension with the largest
// width, the dimension the split planner recurses on (spec.md §4.F).
func (r *Rectangle) WidestDimension() (int, error) {
	if r.Dimensions() == 0 {
		return 0, errors.New(errors.NotFound, "rectangle has no dimensions to split on")
	}
	best := 0
	bestWidth, err := width(r.Min[0], r.Max[0])
	if err != nil {
		return 0, err
	}
	for i := 1; i < r.Dimensions(); i++ {
		w, err := width(r.Min[i], r.Max[i])
		if err != nil {
			return 0, err
		}
		if w > bestWidth {
			best, bestWidth = i, w
		}
	}
	return best, nil
}

// width computes a dimension's (max - min) as a float64. Numeric types
// subtract exactly; string and binary types — which have no subtraction —
// fall back to the byte-lexicographic distance between the two bounds,
// an Open Question resolution recorded in DESIGN.md.
func width(min, max spec.Value) (float64, error) {
	if min.Type != max.Type {
		return 0, errors.Newf(errors.Conversion, "rectangle bound type mismatch: %s vs %s", min.Type, max.Type)
	}
	switch min.Type {
	case spec.TypeBoolean:
		return boolWidth(min.Bool, max.Bool), nil
	case spec.TypeInt32, spec.TypeDate:
		return float64(max.I32 - min.I32), nil
	case spec.TypeInt64, spec.TypeTime, spec.TypeTimestamp, spec.TypeTimestampTZ:
		return float64(max.I64 - min.I64), nil
	case spec.TypeFloat32:
		return float64(max.F32 - min.F32), nil
	case spec.TypeFloat64:
		return max.F64 - min.F64, nil
	case spec.TypeString:
		return byteDistance([]byte(min.Str), []byte(max.Str)), nil
	case spec.TypeBinary:
		return byteDistance(min.Bytes, max.Bytes), nil
	default:
		return 0, errors.Newf(errors.NotSupported, "type %s has no width", min.Type)
	}
}

func boolWidth(min, max bool) float64 {
	if min == max {
		return 0
	}
	return 1
}

// byteDistance interprets up to the first 8 bytes of each slice as a
// big-endian unsigned integer (short slices are zero-padded on the right)
// and returns the difference as a float64.
func byteDistance(min, max []byte) float64 {
	return toUint64(max) - toUint64(min)
}

func toUint64(b []byte) float64 {
	var buf [8]byte
	n := copy(buf[:], b)
	_ = n
	var v uint64
	for _, by := range buf {
		v = v<<8 | uint64(by)
	}
	return float64(v)
}
