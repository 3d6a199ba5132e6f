package rectangle_test

import (
	"testing"

	"github.com/TFMV/icecore/iceberg/rectangle"
	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandWithNode(t *testing.T) {
	r := rectangle.FromPoint([]spec.Value{spec.StringValue("EU")})
	err := r.ExpandWithNode([]spec.Value{spec.StringValue("US")})
	require.NoError(t, err)
	assert.Equal(t, "EU", r.Min[0].Str)
	assert.Equal(t, "US", r.Max[0].Str)
}

func TestExpandMerge(t *testing.T) {
	a := rectangle.FromPoint([]spec.Value{spec.Int32Value(10)})
	b := rectangle.FromPoint([]spec.Value{spec.Int32Value(5)})
	require.NoError(t, b.ExpandWithNode([]spec.Value{spec.Int32Value(20)}))
	require.NoError(t, a.Expand(b))
	assert.Equal(t, int32(5), a.Min[0].I32)
	assert.Equal(t, int32(20), a.Max[0].I32)
}

func TestCmpWithPriorityWiderWins(t *testing.T) {
	narrow, _ := rectangle.New([]spec.Value{spec.Int32Value(0)}, []spec.Value{spec.Int32Value(5)})
	wide, _ := rectangle.New([]spec.Value{spec.Int32Value(0)}, []spec.Value{spec.Int32Value(50)})
	c, err := narrow.CmpWithPriority(wide)
	require.NoError(t, err)
	assert.Equal(t, -1, c)
}

func TestCmpWithPriorityFallthrough(t *testing.T) {
	a, _ := rectangle.New(
		[]spec.Value{spec.Int32Value(0), spec.Int32Value(0)},
		[]spec.Value{spec.Int32Value(10), spec.Int32Value(100)},
	)
	b, _ := rectangle.New(
		[]spec.Value{spec.Int32Value(0), spec.Int32Value(0)},
		[]spec.Value{spec.Int32Value(10), spec.Int32Value(1)},
	)
	c, err := a.CmpWithPriority(b)
	require.NoError(t, err)
	assert.Equal(t, 1, c, "first dimension ties, second dimension decides")
}

func TestWidestDimension(t *testing.T) {
	r, _ := rectangle.New(
		[]spec.Value{spec.Int32Value(0), spec.Int32Value(0)},
		[]spec.Value{spec.Int32Value(10), spec.Int32Value(1000)},
	)
	d, err := r.WidestDimension()
	require.NoError(t, err)
	assert.Equal(t, 1, d)
}

func TestContains(t *testing.T) {
	r, _ := rectangle.New([]spec.Value{spec.Int32Value(0)}, []spec.Value{spec.Int32Value(10)})
	ok, err := r.Contains([]spec.Value{spec.Int32Value(5)})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Contains([]spec.Value{spec.Int32Value(11)})
	require.NoError(t, err)
	assert.False(t, ok)
}
