package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yavashark/yavashark/value"
)

func TestKindPredicates(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		v        value.Value
		wantKind value.Kind
		typeOf   string
	}{
		"undefined": {value.Value{}, value.KindUndefined, "undefined"},
		"number":    {value.Number(42), value.KindNumber, "number"},
		"string":    {value.Str("hi"), value.KindString, "string"},
		"boolean":   {value.Bool(true), value.KindBoolean, "boolean"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantKind, tc.v.Kind())
			assert.Equal(t, tc.typeOf, tc.v.TypeOf())
		})
	}
}

func TestFromObjNilIsNull(t *testing.T) {
	t.Parallel()
	v := value.FromObj(nil)
	assert.True(t, v.IsNull())
}

func TestIsTruthy(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		v       value.Value
		truthy  bool
	}{
		"zero":         {value.Number(0), false},
		"nan":          {value.Number(0 / negZero()), false},
		"nonzero":      {value.Number(1), true},
		"empty string": {value.Str(""), false},
		"nonempty":     {value.Str("x"), true},
		"true":         {value.Bool(true), true},
		"false":        {value.Bool(false), false},
		"null":         {value.Null, false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.truthy, tc.v.IsTruthy())
			assert.Equal(t, !tc.truthy, tc.v.IsFalsey())
		})
	}
}

func negZero() float64 { return 0 }

func TestStrictEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, value.StrictEqual(value.Number(1), value.Number(1)))
	assert.False(t, value.StrictEqual(value.Number(1), value.Str("1")))
	assert.True(t, value.StrictEqual(value.Str("a"), value.Str("a")))
	assert.False(t, value.StrictEqual(value.Value{}, value.Bool(false)))
}

func TestSameValueZeroNaN(t *testing.T) {
	t.Parallel()

	nan := value.Number(nanOf())
	assert.True(t, value.SameValueZero(nan, nan))
	assert.False(t, value.StrictEqual(nan, nan), "NaN !== NaN per StrictEqual, unlike SameValueZero")
}

func nanOf() float64 {
	var zero float64
	return zero / zero
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		n    float64
		want string
	}{
		"integer":       {42, "42"},
		"negative":      {-1.5, "-1.5"},
		"zero":          {0, "0"},
		"small exp":     {1e-7, "1e-7"},
		"large exp":     {1e21, "1e+21"},
		"within range":  {123456, "123456"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, value.FormatNumber(tc.n))
		})
	}
}
