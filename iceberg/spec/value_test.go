package spec_test

import (
	"testing"

	"github.com/TFMV/icecore/iceberg/spec"
	icerrors "github.com/TFMV/icecore/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareOrder(t *testing.T) {
	c, err := spec.Compare(spec.Int64Value(1), spec.Int64Value(2))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = spec.Compare(spec.StringValue("EU"), spec.StringValue("EU"))
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	c, err = spec.Compare(spec.StringValue("US"), spec.StringValue("EU"))
	require.NoError(t, err)
	assert.Equal(t, 1, c)
}

func TestCompareNullsSortFirst(t *testing.T) {
	c, err := spec.Compare(spec.NullValue(spec.TypeString), spec.StringValue("EU"))
	require.NoError(t, err)
	assert.Equal(t, -1, c)
}

func TestCompareMismatchedTypesIsConversionError(t *testing.T) {
	_, err := spec.Compare(spec.Int32Value(1), spec.StringValue("x"))
	require.Error(t, err)
	assert.True(t, icerrors.Is(err, icerrors.Conversion))
}

func TestMinMax(t *testing.T) {
	min, err := spec.Min(spec.Int32Value(5), spec.Int32Value(3))
	require.NoError(t, err)
	assert.Equal(t, int32(3), min.I32)

	max, err := spec.Max(spec.Int32Value(5), spec.Int32Value(3))
	require.NoError(t, err)
	assert.Equal(t, int32(5), max.I32)
}

func TestMidpoint(t *testing.T) {
	mid, err := spec.Midpoint(spec.Int32Value(0), spec.Int32Value(10))
	require.NoError(t, err)
	assert.Equal(t, int32(5), mid.I32)
}

func TestStructToVector(t *testing.T) {
	s := spec.Struct{"region": spec.StringValue("EU"), "year": spec.Int32Value(2024)}
	vec, err := s.ToVector([]string{"region", "year"})
	require.NoError(t, err)
	assert.Equal(t, "EU", vec[0].Str)
	assert.Equal(t, int32(2024), vec[1].I32)

	_, err = s.ToVector([]string{"missing"})
	assert.Error(t, err)
}

func TestSchemaFieldByID(t *testing.T) {
	schema := &spec.Schema{SchemaID: 0, Fields: []spec.SchemaField{
		{ID: 1, Name: "region", Type: spec.TypeString},
		{ID: 2, Name: "year", Type: spec.TypeInt32},
	}}
	f, err := schema.FieldByID(2)
	require.NoError(t, err)
	assert.Equal(t, "year", f.Name)
	assert.Equal(t, 2, schema.MaxFieldID())

	_, err = schema.FieldByID(99)
	assert.Error(t, err)
}
