package intrinsics

import (
	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/value"
)

// installGenerator builds Generator.prototype's next/return/throw
// (spec.md §4.8), each delegating to the GeneratorObject's Nexter — the
// interface vm.GeneratorTask implements so package object (and, via this
// file, package intrinsics) never has to import package vm. Grounded on
// original_source/crates/yavashark_vm/src/resumable_vm.rs's {value, done}
// result shape.
func (b *builder) installGenerator() {
	b.generatorProto = object.New(b.iteratorProto)
	b.m.GeneratorProto = b.generatorProto

	b.method(b.generatorProto, "next", 1, b.generatorNext)
	b.method(b.generatorProto, "return", 1, b.generatorReturn)
	b.method(b.generatorProto, "throw", 1, b.generatorThrow)
	b.generatorProto.DefinePropertyAttributes(value.IKeySym(value.SymbolIterator()), value.FromObj(object.NewNativeFunction(b.functionProto, "[Symbol.iterator]", 0, iteratorSelf)), builtinAttrs, b.m)
}

func generatorOf(c object.Caller, this value.Value) (*object.GeneratorObject, error) {
	obj := asObj(this)
	g, ok := obj.(*object.GeneratorObject)
	if !ok {
		return nil, c.ThrowTypeError("Generator method called on a non-generator")
	}
	return g, nil
}

func (b *builder) genResultValue(r object.GenResult) value.Value {
	return value.FromObj(b.iterResult(r.Value, r.Done))
}

func (b *builder) generatorNext(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	g, err := generatorOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	r, err := g.Nexter.Next(arg(args, 0))
	if err != nil {
		return value.Undefined, err
	}
	return b.genResultValue(r), nil
}

func (b *builder) generatorReturn(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	g, err := generatorOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	r := g.Nexter.Return(arg(args, 0))
	return b.genResultValue(r), nil
}

func (b *builder) generatorThrow(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	g, err := generatorOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	r, err := g.Nexter.Throw(&thrownValueError{v: arg(args, 0)})
	if err != nil {
		return value.Undefined, err
	}
	return b.genResultValue(r), nil
}

// thrownValueError adapts a JS value passed to generator.throw(v) into a Go
// error carrying it verbatim, recoverable via the ThrownValue() interface
// errValue checks — mirrors vm.NewThrow's KindThrow case without this
// package needing to import vm.
type thrownValueError struct{ v value.Value }

func (e *thrownValueError) Error() string                    { return "uncaught exception" }
func (e *thrownValueError) ThrownValue() (value.Value, bool) { return e.v, true }
