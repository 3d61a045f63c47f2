// Package vm implements the bytecode fetch-execute loop (spec.md §3.7,
// §4.5, §4.6): a register+stack+accumulator machine whose mutable state
// is itself a value, so generator/async suspension is "store the state,
// resume it later" rather than anything relying on OS threads or
// goroutine-level coroutines.
//
// Dispatch's organization (operand kinds resolved first, then a single
// opcode switch) is grounded on kristofer-smog's pkg/vm/vm.go; the
// suspend/resume contract and the ControlFlow variant set are ported
// from original_source/crates/yavashark_bytecode/src/vm.rs and
// yavashark_vm/src/resumable_vm.rs.
package vm

import (
	"github.com/yavashark/yavashark/bytecode"
	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/scope"
	"github.com/yavashark/yavashark/value"
)

// ContinuationTarget names where a resumed Await/Yield's settled value
// should land when execution restarts (spec.md §4.6's "continuation-
// storage descriptor").
type ContinuationTarget struct {
	Kind ContinuationKind
	Reg  bytecode.Reg
	Var  bytecode.VarName
}

type ContinuationKind uint8

const (
	ContinuationAcc ContinuationKind = iota
	ContinuationReg
	ContinuationStack
	ContinuationVar
)

// tryFrame is one entry of the VM's try-block stack (spec.md §4.5):
// records the active control block plus the scope active when the try
// was entered, so catch/finally entry can unwind to it directly instead
// of counting scope-chain links. Caught marks that this frame's catch
// arm has already run, so a throw inside the catch body routes to the
// finally arm (or further out) rather than re-entering the same catch.
type tryFrame struct {
	Block  *bytecode.ControlBlock
	Scope  *scope.Scope
	Caught bool
}

// VmState is the complete, snapshotable mutable state of one function
// activation (spec.md §3.7). It owns everything needed to resume
// execution at PC after a suspension — nothing about a paused function
// activation lives on the Go call stack.
type VmState struct {
	Code *bytecode.FunctionCode

	Regs [bytecode.RegCount]value.Value
	Acc  value.Value

	Stack []value.Value

	PC int

	Scope *scope.Scope
	This  value.Value

	NewTarget object.Obj

	TryStack []tryFrame

	// PendingThrow holds an error that must be re-raised once the
	// active finally block finishes running (spec.md §4.5's "stashed
	// throw" / LeaveTry re-raise).
	PendingThrow *Error

	// Continuation records where Await/Yield's settled/injected value
	// should be deposited on resumption (spec.md §4.6).
	Continuation ContinuationTarget

	// SpreadStack accumulates rest-pattern/spread elements across
	// nested BeginSpread/PushSpread/EndSpread sequences.
	SpreadStack [][]value.Value

	// IterStack holds the active for-of/spread iterators, innermost last
	// (spec.md §4.8's iteration protocol), installed by OpFor and driven
	// by OpIterNext/OpPushSpread.
	IterStack []*vmIterator
}

// NewVmState creates a fresh activation record for code, ready to run
// from PC 0 against closure, with parameters already bound into closure
// by the caller (Machine.CallBytecode and its generator/async siblings).
func NewVmState(code *bytecode.FunctionCode, closure *scope.Scope, this value.Value, newTarget object.Obj) *VmState {
	return &VmState{
		Code:      code,
		Scope:     closure,
		This:      this,
		NewTarget: newTarget,
		Acc:       value.Undefined,
	}
}

func (s *VmState) pushStack(v value.Value) { s.Stack = append(s.Stack, v) }

func (s *VmState) popStack() value.Value {
	n := len(s.Stack)
	v := s.Stack[n-1]
	s.Stack = s.Stack[:n-1]
	return v
}

func (s *VmState) peekStack() value.Value { return s.Stack[len(s.Stack)-1] }

// readOperand resolves an Operand against the current state (register
// file, accumulator, constant pool, or immediate) without mutating
// anything — used by every instruction that reads a value.
func (s *VmState) readOperand(op bytecode.Operand) value.Value {
	switch op.Kind {
	case bytecode.OperandAcc:
		return s.Acc
	case bytecode.OperandReg:
		return s.Regs[op.Reg]
	case bytecode.OperandConstIdx:
		return constValue(s.Code.DS.Consts[op.Const])
	case bytecode.OperandStack:
		return s.Stack[op.Stack]
	case bytecode.OperandImmF32:
		return value.Number(float64(op.F32))
	case bytecode.OperandImmI32:
		return value.Number(float64(op.I32))
	case bytecode.OperandImmU32:
		return value.Number(float64(op.U32))
	case bytecode.OperandImmBool:
		return value.Bool(op.Bool)
	case bytecode.OperandImmNull:
		return value.Null
	case bytecode.OperandImmUndefined:
		return value.Undefined
	default:
		return value.Undefined
	}
}

// writeOperand deposits v at the destination an Operand names —
// Dst/Obj/Key slots never name a constant or immediate, so those cases
// are unreachable for well-formed bytecode.
func (s *VmState) writeOperand(op bytecode.Operand, v value.Value) {
	switch op.Kind {
	case bytecode.OperandAcc:
		s.Acc = v
	case bytecode.OperandReg:
		s.Regs[op.Reg] = v
	case bytecode.OperandStack:
		s.Stack[op.Stack] = v
	}
}

// varName resolves a DataSection variable-name index to its string.
func (s *VmState) varName(v bytecode.VarName) string { return s.Code.DS.VarNames[v] }

// load is readOperand generalized to the one operand kind readOperand
// can't resolve on its own: a named variable, looked up through the
// current scope chain.
func (s *VmState) load(op bytecode.Operand) value.Value {
	if op.Kind == bytecode.OperandVarName {
		v, _ := s.Scope.Lookup(s.varName(op.Var))
		return v
	}
	return s.readOperand(op)
}

// store is writeOperand generalized the same way: a VarName destination
// writes through the scope chain (declaring a fresh binding if none
// exists, matching sloppy-mode assignment-creates-global semantics).
func (s *VmState) store(op bytecode.Operand, v value.Value) error {
	if op.Kind == bytecode.OperandVarName {
		return s.Scope.UpdateOrDefine(s.varName(op.Var), v)
	}
	s.writeOperand(op, v)
	return nil
}

func constValue(c bytecode.ConstValue) value.Value {
	switch c.Kind {
	case bytecode.ConstUndefined:
		return value.Undefined
	case bytecode.ConstNull:
		return value.Null
	case bytecode.ConstBool:
		return value.Bool(c.Bool)
	case bytecode.ConstNumber:
		return value.Number(c.Num)
	case bytecode.ConstString:
		return value.Str(c.Str)
	default:
		return value.Undefined
	}
}
