// Package scope implements the lexical environment chain (spec.md §3.5,
// §4.7): a parent-linked variable table carrying a state-flag set, a
// label list, and a `this` binding.
//
// Grounded on the teacher's Scope/Environment/DirectEnv/ObjectEnv split
// (sebastiano-barrera-modeled.js/modeledjs.go lines ~603-745) and
// original_source/crates/yavashark_env/src/scope.rs for the state-flag
// vocabulary (global/function/iteration/breakable/returnable/continuable/
// opt-chain/strict) spec.md §3.5 names directly.
package scope

import (
	"fmt"

	"github.com/yavashark/yavashark/value"
)

// DeclKind distinguishes how a binding was introduced, mirroring the
// teacher's DeclKind (var/let/const all route through the same table but
// read-only-ness and hoisting differ).
type DeclKind uint8

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
)

// StateFlags is the bit set carried by every scope (spec.md §3.5). Child
// scopes inherit the parent's flags with Function and Global cleared
// (spec.md §3.5's "Child scopes inherit...").
type StateFlags uint16

const (
	FlagGlobal StateFlags = 1 << iota
	FlagFunction
	FlagIteration
	FlagBreakable
	FlagContinuable
	FlagReturnable
	FlagOptChainActive
	FlagStrict
)

func (f StateFlags) Has(bit StateFlags) bool { return f&bit != 0 }

// ChildFlags computes the flags a nested scope inherits: everything
// except Global/Function, which only the scope that introduces them
// carries.
func (f StateFlags) ChildFlags() StateFlags {
	return f &^ (FlagGlobal | FlagFunction)
}

// Variable is a table entry: value, attributes, and a read-only bit
// (spec.md §3.5).
type Variable struct {
	Value    value.Value
	ReadOnly bool
	Kind     DeclKind
}

// Scope is a GC-managed lexical environment cell (spec.md §3.5). Table is
// exported so the VM's LoadEnv/StoreEnv fast paths can bypass method-call
// overhead on the hot path, the same trade-off the teacher makes by
// giving VM direct access to `.env`.
type Scope struct {
	Parent *Scope
	Table  map[string]*Variable
	Labels []string
	This   value.Value
	Flags  StateFlags

	// set only on the scope a function call introduces (spec.md §4.7's
	// scope "state flags determine legal control flow"); nil elsewhere.
	Call *CallInfo
}

// CallInfo marks the scope as a function-activation boundary, carrying
// the information a return/this-lookup needs.
type CallInfo struct {
	This     value.Value
	Function value.Value
}

// New creates a root scope (used for a realm's global scope).
func New(flags StateFlags) *Scope {
	return &Scope{Table: make(map[string]*Variable), Flags: flags, This: value.Undefined}
}

// Child creates a nested scope inheriting flags per ChildFlags.
func (s *Scope) Child(extra StateFlags) *Scope {
	parentFlags := StateFlags(0)
	this := value.Undefined
	if s != nil {
		parentFlags = s.Flags.ChildFlags()
		this = s.This
	}
	return &Scope{
		Parent: s,
		Table:  make(map[string]*Variable),
		Flags:  parentFlags | extra,
		This:   this,
	}
}

// IsStrict walks up to find whether this activation runs in strict mode,
// mirroring the teacher's isStrict helper.
func (s *Scope) IsStrict() bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Flags.Has(FlagStrict) {
			return true
		}
		if cur.Call != nil {
			return false
		}
	}
	return false
}

// DefineVar installs a new binding in this scope (shadowing any parent
// binding of the same name), per spec.md §4.7.
func (s *Scope) DefineVar(kind DeclKind, name string, v value.Value) {
	s.Table[name] = &Variable{Value: v, ReadOnly: kind == DeclConst, Kind: kind}
}

// Update walks up writing at the nearest binding (spec.md §4.7's
// `update`). It returns (found, error): found=false means no binding
// exists anywhere in the chain (a ReferenceError, the caller's job to
// raise); a read-only binding returns found=true with ErrReadOnly.
func (s *Scope) Update(name string, v value.Value) (bool, error) {
	for cur := s; cur != nil; cur = cur.Parent {
		if vr, ok := cur.Table[name]; ok {
			if vr.ReadOnly {
				return true, ErrReadOnly{Name: name}
			}
			vr.Value = v
			return true, nil
		}
	}
	return false, nil
}

// UpdateOrDefine writes at the innermost binding if one exists anywhere in
// the chain, else creates a fresh binding in this scope (spec.md §4.7).
func (s *Scope) UpdateOrDefine(name string, v value.Value) error {
	found, err := s.Update(name, v)
	if err != nil {
		return err
	}
	if !found {
		s.DefineVar(DeclVar, name, v)
	}
	return nil
}

// Lookup walks the scope chain parent-first (spec.md §4.7).
func (s *Scope) Lookup(name string) (value.Value, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if vr, ok := cur.Table[name]; ok {
			return vr.Value, true
		}
	}
	return value.Undefined, false
}

// DeclareGlobalVar walks up until a Global- or Function-flagged scope,
// then inserts — mirroring `var` hoisting semantics (spec.md §4.7).
func (s *Scope) DeclareGlobalVar(name string, v value.Value) {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Flags.Has(FlagGlobal) || cur.Flags.Has(FlagFunction) {
			if _, exists := cur.Table[name]; !exists {
				cur.Table[name] = &Variable{Value: v}
			}
			return
		}
		if cur.Parent == nil {
			cur.Table[name] = &Variable{Value: v}
			return
		}
	}
}

// Delete removes a binding from the innermost scope that has it (used by
// `delete` on unqualified identifiers in sloppy mode — a no-op for
// declared bindings in ECMAScript, but object-environment records may
// allow it; kept here for completeness of the scope contract).
func (s *Scope) Delete(name string) bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if _, ok := cur.Table[name]; ok {
			delete(cur.Table, name)
			return true
		}
	}
	return false
}

// CurrentCall finds the nearest enclosing function-activation scope,
// mirroring the teacher's currentCall helper (used for `this`/`arguments`
// resolution).
func (s *Scope) CurrentCall() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Call != nil {
			return cur
		}
	}
	return nil
}

// HasLabel reports whether label is declared on this scope.
func (s *Scope) HasLabel(label string) bool {
	for _, l := range s.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// ErrReadOnly is returned by Update when a const/read-only binding is
// written to; strict-mode callers turn this into a TypeError, sloppy-mode
// callers ignore it (spec.md §4.7).
type ErrReadOnly struct{ Name string }

func (e ErrReadOnly) Error() string {
	return fmt.Sprintf("Assignment to constant variable %q", e.Name)
}
