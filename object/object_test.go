package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/task"
	"github.com/yavashark/yavashark/value"
	"github.com/yavashark/yavashark/vm"
)

func newCaller() object.Caller {
	return vm.NewMachine(task.NewQueue())
}

func TestDefineAndGetOwnProperty(t *testing.T) {
	t.Parallel()
	m := newCaller()
	o := object.New(nil)

	_, err := o.DefineProperty(value.IKeyStr("x"), value.Number(1), m)
	require.NoError(t, err)

	p, ok := o.GetOwnProperty(value.IKeyStr("x"))
	require.True(t, ok)
	assert.Equal(t, value.Number(1), p.Value)
}

func TestResolvePropertyWalksPrototypeChain(t *testing.T) {
	t.Parallel()
	m := newCaller()

	proto := object.New(nil)
	_, err := proto.DefineProperty(value.IKeyStr("inherited"), value.Str("from-proto"), m)
	require.NoError(t, err)

	child := object.New(proto)
	v, found, err := object.GetResolvedValue(child, value.IKeyStr("inherited"), value.FromObj(child), m)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, value.Str("from-proto"), v)
}

func TestDeleteProperty(t *testing.T) {
	t.Parallel()
	m := newCaller()
	o := object.New(nil)

	_, err := o.DefineProperty(value.IKeyStr("y"), value.Number(2), m)
	require.NoError(t, err)

	_, err = o.DeleteProperty(value.IKeyStr("y"), m)
	require.NoError(t, err)
	assert.False(t, o.ContainsOwnKey(value.IKeyStr("y")))
}

func TestFreezePreventsMutation(t *testing.T) {
	t.Parallel()
	m := newCaller()
	o := object.New(nil)

	_, err := o.DefineProperty(value.IKeyStr("z"), value.Number(1), m)
	require.NoError(t, err)

	o.Freeze()
	assert.True(t, o.IsFrozen())
	assert.True(t, o.IsSealed())
	assert.False(t, o.IsExtensible())

	res, err := o.DefineProperty(value.IKeyStr("z"), value.Number(2), m)
	require.NoError(t, err)
	assert.Equal(t, object.DefineReadOnly, res.Kind, "a frozen object must reject redefining an own data property")
}

func TestEnumerableKeysPreservesInsertionOrder(t *testing.T) {
	t.Parallel()
	m := newCaller()
	o := object.New(nil)

	for _, k := range []string{"b", "a", "c"} {
		_, err := o.DefineProperty(value.IKeyStr(k), value.Str(k), m)
		require.NoError(t, err)
	}

	keys := o.EnumerableKeys()
	require.Len(t, keys, 3)
	assert.Equal(t, "b", keys[0].String())
	assert.Equal(t, "a", keys[1].String())
	assert.Equal(t, "c", keys[2].String())
}
