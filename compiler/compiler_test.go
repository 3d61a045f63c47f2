package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yavashark/yavashark/compiler"
)

func TestCompileProducesInstructions(t *testing.T) {
	t.Parallel()
	fc, err := compiler.Compile([]byte("var x = 1 + 2;"), compiler.Options{Name: "test.js"})
	require.NoError(t, err)
	assert.NotEmpty(t, fc.Instr)
	assert.Equal(t, "test.js", fc.Name)
}

func TestCompileDetectsUseStrictPrologue(t *testing.T) {
	t.Parallel()

	fc, err := compiler.Compile([]byte(`"use strict"; var x = 1;`), compiler.Options{Name: "strict.js"})
	require.NoError(t, err)
	assert.True(t, fc.Strict)

	fc, err = compiler.Compile([]byte("var x = 1;"), compiler.Options{Name: "sloppy.js"})
	require.NoError(t, err)
	assert.False(t, fc.Strict)
}

func TestCompileOptionsStrictOverridesMissingPrologue(t *testing.T) {
	t.Parallel()

	fc, err := compiler.Compile([]byte("var x = 1;"), compiler.Options{Name: "forced.js", Strict: true})
	require.NoError(t, err)
	assert.True(t, fc.Strict)
}

func TestCompileRejectsSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := compiler.Compile([]byte("var = ;"), compiler.Options{Name: "bad.js"})
	assert.Error(t, err)
}
