package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yavashark/yavashark/value"
	"github.com/yavashark/yavashark/vm"
)

func TestErrorStringIncludesKindAndMessage(t *testing.T) {
	t.Parallel()

	err := vm.NewTypeError("%s is not a function", "x")
	assert.Equal(t, "TypeError: x is not a function", err.Error())
}

func TestThrowErrorStringDisplaysThrownValue(t *testing.T) {
	t.Parallel()

	err := vm.NewThrow(value.Str("boom"))
	assert.Equal(t, "Throw: boom", err.Error())
}

func TestAsErrorPassesThroughVMError(t *testing.T) {
	t.Parallel()

	original := vm.NewRangeError("out of range")
	assert.Same(t, original, vm.AsError(original))
}

func TestAsErrorWrapsGenericGoError(t *testing.T) {
	t.Parallel()

	wrapped := vm.AsError(assertableErr{"disk full"})
	assert.Equal(t, vm.KindRuntime, wrapped.Kind)
	assert.Contains(t, wrapped.Error(), "disk full")
}

func TestAsErrorNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, vm.AsError(nil))
}

func TestWithFrameAppendsStack(t *testing.T) {
	t.Parallel()

	err := vm.NewInternalError("broke")
	err.WithFrame("doStuff", "main.js", 10, 3)
	assert.Len(t, err.Stack, 1)
	assert.Contains(t, err.FormatStack(), "doStuff")
	assert.Contains(t, err.FormatStack(), "main.js:10:3")
}

type assertableErr struct{ msg string }

func (e assertableErr) Error() string { return e.msg }
