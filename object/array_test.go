package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/value"
)

func TestArrayPushPop(t *testing.T) {
	t.Parallel()
	a := object.NewArray(nil)

	assert.Equal(t, uint64(0), a.Length())
	a.Push(value.Number(1))
	a.Push(value.Number(2))
	assert.Equal(t, uint64(2), a.Length())

	v, ok := a.Pop()
	require.True(t, ok)
	assert.Equal(t, value.Number(2), v)
	assert.Equal(t, uint64(1), a.Length())
}

func TestArrayFromPreservesOrder(t *testing.T) {
	t.Parallel()
	vals := []value.Value{value.Number(1), value.Number(2), value.Number(3)}
	a := object.NewArrayFrom(nil, vals)

	require.Equal(t, uint64(3), a.Length())
	for i, want := range vals {
		got, ok := a.At(uint64(i))
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestArraySetLengthTruncates(t *testing.T) {
	t.Parallel()
	a := object.NewArrayFrom(nil, []value.Value{value.Number(1), value.Number(2), value.Number(3)})

	a.SetLength(1)
	assert.Equal(t, uint64(1), a.Length())

	done, _, ok := a.GetArrayOrDone(1)
	assert.True(t, done)
	assert.False(t, ok, "index 1 must no longer be present after truncation")
}

func TestArrayGetArrayOrDoneOutOfRange(t *testing.T) {
	t.Parallel()
	a := object.NewArray(nil)
	done, _, ok := a.GetArrayOrDone(0)
	assert.True(t, done)
	assert.False(t, ok)
}
