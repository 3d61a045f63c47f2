package intrinsics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yavashark/yavashark/realm"
	"github.com/yavashark/yavashark/value"
)

// intrinsics' builder type and its install* methods are unexported — they
// are only reachable through realm.New, which calls intrinsics.Install as
// its one-time setup step. Exercising the installed global graph this way
// also doubles as an integration check that Install wired every
// constructor compiler/expr.go's object/array literal lowering depends on.
func run(t *testing.T, src string) *realm.Realm {
	t.Helper()
	r, err := realm.New(realm.Config{Name: t.Name()})
	require.NoError(t, err)
	_, err = r.Run([]byte(src), t.Name()+".js")
	require.NoError(t, err)
	return r
}

func TestObjectKeysAndAssign(t *testing.T) {
	t.Parallel()
	r := run(t, `
var base = { a: 1 };
var extra = { b: 2 };
var merged = Object.assign({}, base, extra);
var keys = Object.keys(merged);
var keyCount = keys.length;
`)
	v, ok := r.Global.Lookup("keyCount")
	require.True(t, ok)
	assert.Equal(t, value.Number(2), v)
}

func TestArrayMapFilterReduce(t *testing.T) {
	t.Parallel()
	r := run(t, `
var nums = [1, 2, 3, 4, 5];
var doubled = nums.map(function (n) { return n * 2; });
var evens = doubled.filter(function (n) { return n % 4 === 0; });
var total = nums.reduce(function (acc, n) { return acc + n; }, 0);
var evenCount = evens.length;
`)
	total, ok := r.Global.Lookup("total")
	require.True(t, ok)
	assert.Equal(t, value.Number(15), total)

	evenCount, ok := r.Global.Lookup("evenCount")
	require.True(t, ok)
	assert.Equal(t, value.Number(2), evenCount)
}

func TestArrayIsArray(t *testing.T) {
	t.Parallel()
	r := run(t, `
var yes = Array.isArray([1, 2]);
var no = Array.isArray({});
`)
	yes, ok := r.Global.Lookup("yes")
	require.True(t, ok)
	assert.True(t, yes.Bool())

	no, ok := r.Global.Lookup("no")
	require.True(t, ok)
	assert.False(t, no.Bool())
}

func TestDateGetFullYearRoundTrip(t *testing.T) {
	t.Parallel()
	r := run(t, `
var d = new Date(2024, 0, 15);
var year = d.getFullYear();
var month = d.getMonth();
var day = d.getDate();
`)
	year, ok := r.Global.Lookup("year")
	require.True(t, ok)
	assert.Equal(t, value.Number(2024), year)

	month, ok := r.Global.Lookup("month")
	require.True(t, ok)
	assert.Equal(t, value.Number(0), month)

	day, ok := r.Global.Lookup("day")
	require.True(t, ok)
	assert.Equal(t, value.Number(15), day)
}

func TestGlobalFunctions(t *testing.T) {
	t.Parallel()
	r := run(t, `
var a = isNaN(NaN);
var b = isNaN(1);
var c = isFinite(1 / Infinity);
var d = parseInt("42px", 10);
var e = parseInt("0x1F");
var f = parseFloat("3.14abc");
`)
	for name, want := range map[string]value.Value{
		"a": value.Bool(true),
		"b": value.Bool(false),
		"c": value.Bool(true),
		"d": value.Number(42),
		"e": value.Number(31),
		"f": value.Number(3.14),
	} {
		v, ok := r.Global.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, want, v, name)
	}
}
