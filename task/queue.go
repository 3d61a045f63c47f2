// Package task implements the single-threaded cooperative scheduler and
// the Promise/async-function driving machinery spec.md §4.7/§4.8 names as
// core components: a task queue, and the promise state machine that rides
// on top of it. No goroutine is spawned per task — a realm is confined to
// whichever goroutine calls Queue.Drain/RunFirstSync, matching spec.md §5's
// "treated as host bugs" framing for concurrent/re-entrant misuse.
//
// Grounded on original_source/crates/yavashark_env/src/task_queue.rs
// (FIFO job queue, microtask-style draining) and
// yavashark_env/src/builtins/promise.rs (reaction scheduling).
package task

import (
	"fmt"
	"runtime"
)

// Job is one queued unit of work: a promise reaction, a resolved-await
// continuation, or any other deferred callback a realm schedules.
type Job func()

// Queue is the FIFO cooperative scheduler (spec.md §4.7). It is not safe
// for concurrent use from multiple goroutines — a realm owns exactly one
// Queue and drains it from the single goroutine it was created on.
type Queue struct {
	jobs []Job

	// debugOwner, created by NewQueue, catches a realm
	// being driven from more than one goroutine — the "host bug" spec.md
	// §5 says a re-entrant/concurrent mutation is, made loud instead of a
	// silent data race.
	debugOwner *goroutineGuard
}

// NewQueue creates an empty queue.
func NewQueue() *Queue { return &Queue{debugOwner: newGoroutineGuard()} }

// Enqueue appends a job to the end of the queue.
func (q *Queue) Enqueue(j Job) {
	q.debugOwner.check()
	q.jobs = append(q.jobs, j)
}

// Len reports the number of pending jobs.
func (q *Queue) Len() int { return len(q.jobs) }

// RunFirstSync pops and runs exactly one queued job, if any is pending.
// Reports whether a job ran.
func (q *Queue) RunFirstSync() bool {
	q.debugOwner.check()
	if len(q.jobs) == 0 {
		return false
	}
	j := q.jobs[0]
	q.jobs = q.jobs[1:]
	j()
	return true
}

// Drain runs every job currently queued, including ones newly enqueued by
// jobs that ran during this Drain call (the standard microtask-queue
// drain-to-exhaustion behavior promise reactions rely on).
func (q *Queue) Drain() {
	q.debugOwner.check()
	for q.RunFirstSync() {
	}
}

// goroutineGuard is a debug-mode check that every call arrives from the
// same goroutine the queue was created on. It is cheap enough (one
// runtime.Goexit-free stack-id read) to leave compiled in rather than
// gating it behind a build tag.
type goroutineGuard struct {
	id uint64
}

func newGoroutineGuard() *goroutineGuard {
	return &goroutineGuard{id: goroutineID()}
}

func (g *goroutineGuard) check() {
	if g == nil {
		return
	}
	if id := goroutineID(); id != g.id {
		panic(fmt.Sprintf("task: Queue accessed from goroutine %d, owned by goroutine %d — a realm must be driven from a single goroutine", id, g.id))
	}
}

// goroutineID parses the numeric id out of runtime.Stack's header line.
// This is the same trick net/http's httptest and several debugging
// libraries use; it's diagnostic-only (never used for scheduling
// decisions) so its cost and fragility across Go versions are acceptable.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
