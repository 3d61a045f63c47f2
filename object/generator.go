package object

import "github.com/yavashark/yavashark/value"

// GenResult is the JS-visible `{value, done}` shape a generator's
// next()/return()/throw() produce (spec.md §4.8).
type GenResult struct {
	Value value.Value
	Done  bool
}

// GeneratorNexter is the capability a GeneratorObject's native next()/
// return()/throw() methods drive. Implemented by vm.GeneratorTask and
// handed in as an interface so package object never needs to import
// package vm (vm already imports object).
type GeneratorNexter interface {
	Next(sent value.Value) (GenResult, error)
	Return(sent value.Value) GenResult
	Throw(err error) (GenResult, error)
}

// GeneratorObject is the object a generator function call returns
// immediately, before its body has run at all (spec.md §4.8). Its
// Symbol.iterator-driven next/return/throw natives (wired by intrinsics)
// delegate to Nexter.
//
// Grounded on original_source/crates/yavashark_vm/src/resumable_vm.rs's
// generator wrapper, adapted since that type drove the VM directly where
// here the driving logic stays in package vm behind this interface.
type GeneratorObject struct {
	Object
	Nexter GeneratorNexter
}

func NewGeneratorObject(proto Obj, nexter GeneratorNexter) *GeneratorObject {
	return &GeneratorObject{Object: *NewWithClass(proto, "Generator"), Nexter: nexter}
}
