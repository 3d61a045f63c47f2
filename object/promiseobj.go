package object

import "github.com/yavashark/yavashark/task"

// PromiseObject is the JS-visible Promise shape (spec.md §4.8): a thin
// wrapper pairing the property table every Obj needs with the
// independent task.Promise state machine. Kept a direct field rather
// than behind an interface since package object already sits above
// package task in the dependency order (task imports only value).
//
// Grounded on original_source/crates/yavashark_env/src/builtins/promise.rs's
// PromiseState-holding wrapper object.
type PromiseObject struct {
	Object
	P *task.Promise
}

func NewPromiseObject(proto Obj, p *task.Promise) *PromiseObject {
	return &PromiseObject{Object: *NewWithClass(proto, "Promise"), P: p}
}
