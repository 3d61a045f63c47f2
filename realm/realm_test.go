package realm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yavashark/yavashark/realm"
	"github.com/yavashark/yavashark/value"
)

func newRealm(t *testing.T) *realm.Realm {
	t.Helper()
	r, err := realm.New(realm.Config{Name: t.Name()})
	require.NoError(t, err)
	return r
}

func TestTopLevelVarHoistsOntoGlobalScope(t *testing.T) {
	t.Parallel()
	r := newRealm(t)

	_, err := r.Run([]byte("var x = 1 + 2;"), "test.js")
	require.NoError(t, err)

	v, ok := r.Global.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, value.Number(3), v)
}

func TestFunctionDeclarationAndCall(t *testing.T) {
	t.Parallel()
	r := newRealm(t)

	_, err := r.Run([]byte("function add(a, b) { return a + b; } var r = add(2, 3);"), "test.js")
	require.NoError(t, err)

	v, ok := r.Global.Lookup("r")
	require.True(t, ok)
	assert.Equal(t, value.Number(5), v)
}

func TestArrayLiteralAndLength(t *testing.T) {
	t.Parallel()
	r := newRealm(t)

	_, err := r.Run([]byte("var arr = [1, 2, 3]; var len = arr.length;"), "test.js")
	require.NoError(t, err)

	v, ok := r.Global.Lookup("len")
	require.True(t, ok)
	assert.Equal(t, value.Number(3), v)
}

func TestObjectLiteralPropertyAccess(t *testing.T) {
	t.Parallel()
	r := newRealm(t)

	_, err := r.Run([]byte(`var o = { a: 1, b: "two" }; var a = o.a; var b = o.b;`), "test.js")
	require.NoError(t, err)

	a, ok := r.Global.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, value.Number(1), a)

	b, ok := r.Global.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, value.Str("two"), b)
}

func TestPromiseThenSettlesAfterRunDrainsQueue(t *testing.T) {
	t.Parallel()
	r := newRealm(t)

	src := `var result;
Promise.resolve(10).then(function(v) { result = v; });`
	_, err := r.Run([]byte(src), "test.js")
	require.NoError(t, err)

	result, ok := r.Global.Lookup("result")
	require.True(t, ok)
	assert.Equal(t, value.Number(10), result)
}

func TestTryCatchRecoversFromThrow(t *testing.T) {
	t.Parallel()
	r := newRealm(t)

	src := `var caught;
try {
  throw "oops";
} catch (e) {
  caught = e;
}`
	_, err := r.Run([]byte(src), "test.js")
	require.NoError(t, err)

	caught, ok := r.Global.Lookup("caught")
	require.True(t, ok)
	assert.Equal(t, value.Str("oops"), caught)
}

func TestForLoopAccumulates(t *testing.T) {
	t.Parallel()
	r := newRealm(t)

	_, err := r.Run([]byte("var sum = 0; for (var i = 0; i < 5; i = i + 1) { sum = sum + i; }"), "test.js")
	require.NoError(t, err)

	sum, ok := r.Global.Lookup("sum")
	require.True(t, ok)
	assert.Equal(t, value.Number(10), sum)
}

func TestClosureCapturesOuterVariable(t *testing.T) {
	t.Parallel()
	r := newRealm(t)

	src := `function makeCounter() {
  var count = 0;
  return function () {
    count = count + 1;
    return count;
  };
}
var counter = makeCounter();
var first = counter();
var second = counter();`
	_, err := r.Run([]byte(src), "test.js")
	require.NoError(t, err)

	first, ok := r.Global.Lookup("first")
	require.True(t, ok)
	assert.Equal(t, value.Number(1), first)

	second, ok := r.Global.Lookup("second")
	require.True(t, ok)
	assert.Equal(t, value.Number(2), second)
}

func TestThrownErrorSurfacesAsGoError(t *testing.T) {
	t.Parallel()
	r := newRealm(t)

	_, err := r.Run([]byte(`throw new TypeError("bad");`), "test.js")
	require.Error(t, err)
}

func TestRunPersistsGlobalsAcrossCalls(t *testing.T) {
	t.Parallel()
	r := newRealm(t)

	_, err := r.Run([]byte("var x = 1;"), "first.js")
	require.NoError(t, err)
	_, err = r.Run([]byte("x = x + 41;"), "second.js")
	require.NoError(t, err)

	v, ok := r.Global.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, value.Number(42), v)
}
