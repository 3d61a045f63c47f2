// Package gc implements the cycle-collection substrate described in
// spec.md §9 ("Cyclic object graphs"): objects are reference-counted by
// Go's own runtime (every Value/Obj reference is an ordinary Go pointer,
// so Go's garbage collector already reclaims acyclic garbage), and this
// package adds the one thing Go's collector doesn't know about — the
// language-level object graph expressed through value.Obj.GCRefs — so the
// realm can run an explicit mark pass over that graph. This gives the
// runtime parity with the Rust source's tracing collector (which exists
// because Rc<T> alone can't break cycles) without reimplementing a heap
// allocator: allocation stays on Go's arena, only identity and edge
// enumeration are custom.
package gc

import (
	"sync/atomic"

	"github.com/yavashark/yavashark/value"
)

var nextID atomic.Uint64

// NewID allocates a process-wide unique object identity. Every concrete
// Obj implementation calls this once, in its constructor, and returns the
// same value from ObjID for its lifetime.
func NewID() uint64 { return nextID.Add(1) }

// Stats summarizes one Collect pass.
type Stats struct {
	Reachable int
	Roots     int
}

// Collect performs a mark pass over the object graph reachable from roots
// via GCRefs, mirroring spec.md §5's GC contract ("the collector calls
// gc_refs on each live object to obtain outgoing strong edges; cycles are
// reclaimed even when all members hold shared ownership"). Unlike the
// Rust source, Go's runtime already owns memory reclamation: this pass is
// a diagnostic/verification tool (no realm code calls it;
// realm.Realm.CollectGarbage is a no-op) to catch objects whose GCRefs implementation
// is missing an edge — a real leak of the language-level graph — and to
// report cycle-collection stats the way the original log output does.
func Collect(roots []value.Obj) Stats {
	seen := make(map[uint64]struct{}, len(roots)*4)
	var stack []value.Obj
	stack = append(stack, roots...)

	for len(stack) > 0 {
		n := len(stack) - 1
		o := stack[n]
		stack = stack[:n]
		if o == nil {
			continue
		}
		if _, ok := seen[o.ObjID()]; ok {
			continue
		}
		seen[o.ObjID()] = struct{}{}
		stack = append(stack, o.GCRefs()...)
	}

	return Stats{Reachable: len(seen), Roots: len(roots)}
}

// Reaches reports whether target is reachable from roots — useful in
// tests that construct a deliberate reference cycle and assert the mark
// pass still terminates and finds every member (spec.md §8's "cycles are
// reclaimed even when all members hold shared ownership", restated here
// as "cycles are still fully marked", since reclamation itself is Go's).
func Reaches(roots []value.Obj, target value.Obj) bool {
	if target == nil {
		return false
	}
	seen := make(map[uint64]struct{})
	var stack []value.Obj
	stack = append(stack, roots...)
	for len(stack) > 0 {
		n := len(stack) - 1
		o := stack[n]
		stack = stack[:n]
		if o == nil {
			continue
		}
		if o.ObjID() == target.ObjID() {
			return true
		}
		if _, ok := seen[o.ObjID()]; ok {
			continue
		}
		seen[o.ObjID()] = struct{}{}
		stack = append(stack, o.GCRefs()...)
	}
	return false
}
