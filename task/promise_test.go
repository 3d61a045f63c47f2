package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yavashark/yavashark/task"
	"github.com/yavashark/yavashark/value"
)

func TestResolveSettlesAsFulfilled(t *testing.T) {
	t.Parallel()
	q := task.NewQueue()
	p := task.NewPromise(q)

	assert.Equal(t, task.Pending, p.State())
	p.Resolve(nil, value.Number(42))
	assert.Equal(t, task.Fulfilled, p.State())
	assert.Equal(t, value.Number(42), p.Result())
}

func TestRejectSettlesAsRejected(t *testing.T) {
	t.Parallel()
	q := task.NewQueue()
	p := task.NewPromise(q)

	p.Reject(value.Str("boom"))
	assert.Equal(t, task.Rejected, p.State())
	assert.Equal(t, value.Str("boom"), p.Result())
}

func TestResolveIsNoopOnceSettled(t *testing.T) {
	t.Parallel()
	q := task.NewQueue()
	p := task.NewPromise(q)

	p.Resolve(nil, value.Number(1))
	p.Resolve(nil, value.Number(2))
	assert.Equal(t, value.Number(1), p.Result(), "a settled promise ignores later Resolve/Reject calls")
}

func TestThenForwardsWithoutCallbacks(t *testing.T) {
	t.Parallel()
	q := task.NewQueue()
	p := task.NewPromise(q)

	chained := p.Then(nil, value.Value{}, value.Value{})
	p.Resolve(nil, value.Number(7))

	require.Equal(t, task.Pending, chained.State(), "Then's reaction only runs once the queue is drained")
	q.Drain()
	assert.Equal(t, task.Fulfilled, chained.State())
	assert.Equal(t, value.Number(7), chained.Result())
}

func TestCatchForwardsRejection(t *testing.T) {
	t.Parallel()
	q := task.NewQueue()
	p := task.NewPromise(q)

	chained := p.Catch(nil, value.Value{})
	p.Reject(value.Str("oops"))
	q.Drain()

	assert.Equal(t, task.Rejected, chained.State())
	assert.Equal(t, value.Str("oops"), chained.Result())
}

func TestQueueDrainRunsJobsQueuedDuringDrain(t *testing.T) {
	t.Parallel()
	q := task.NewQueue()

	ran := 0
	q.Enqueue(func() {
		ran++
		q.Enqueue(func() { ran++ })
	})
	q.Drain()
	assert.Equal(t, 2, ran)
}
