/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package task

import (
	"context"
	"fmt"

	"github.com/nabbar/dimcore/handle"
)

type eventThreadKeyType struct{}

var eventThreadKey eventThreadKeyType

// Runtime owns the handle-indexed set of task queues, including the two
// process-wide distinguished queues: the event queue (exactly one
// worker, used for I/O completions, timers, and protocol callbacks) and
// the compute queue (a configurable worker pool for CPU-bound work).
type Runtime struct {
	queues handle.Map[*queue]
	token  *int // unique per Runtime; its address is the event-thread token

	event   handle.Handle
	compute handle.Handle
}

// New builds a Runtime and starts its event queue (1 worker) and
// compute queue (computeThreads workers).
func New(computeThreads int) *Runtime {
	rt := &Runtime{token: new(int)}

	eq := newQueue("event", 1)
	rt.event = rt.queues.Insert(eq)
	eq.spawn(rt)

	cq := newQueue("compute", computeThreads)
	rt.compute = rt.queues.Insert(cq)
	for i := 0; i < computeThreads; i++ {
		cq.spawn(rt)
	}

	return rt
}

// taskContext returns the context a worker of q passes to every Task it
// runs. Only the event queue's context carries the runtime's token, so
// InEventThread can recognise it.
func (rt *Runtime) taskContext(q *queue) context.Context {
	ctx := context.Background()
	if h, ok := rt.queues.Find(rt.event); ok && h == q {
		ctx = context.WithValue(ctx, eventThreadKey, rt.token)
	}
	return ctx
}

// InEventThread reports whether ctx (received by the calling Task's
// Run method, or threaded down from it) originates from the event
// queue's worker.
func (rt *Runtime) InEventThread(ctx context.Context) bool {
	tok, _ := ctx.Value(eventThreadKey).(*int)
	return tok == rt.token
}

// Post appends tasks to the queue named by h. Thread-safe; a multi-task
// post lands adjacent in FIFO order.
func (rt *Runtime) Post(h handle.Handle, tasks ...Task) error {
	q, ok := rt.queues.Find(h)
	if !ok {
		return fmt.Errorf("task: queue handle %d not found", h)
	}
	q.post(tasks...)
	return nil
}

// PostEvent posts to the event queue.
func (rt *Runtime) PostEvent(tasks ...Task) {
	_ = rt.Post(rt.event, tasks...)
}

// PostCompute posts to the compute queue.
func (rt *Runtime) PostCompute(tasks ...Task) {
	_ = rt.Post(rt.compute, tasks...)
}

// EventQueue returns the handle of the distinguished event queue.
func (rt *Runtime) EventQueue() handle.Handle { return rt.event }

// ComputeQueue returns the handle of the distinguished compute queue.
func (rt *Runtime) ComputeQueue() handle.Handle { return rt.compute }

// CreateQueue creates a new user queue with the given name and initial
// thread count.
func (rt *Runtime) CreateQueue(name string, threads int) handle.Handle {
	q := newQueue(name, 0)
	h := rt.queues.Insert(q)
	q.setThreads(rt, threads)
	return h
}

// SetQueueThreads resizes the queue named by h: grows by spawning,
// shrinks by posting sentinel end-thread tasks equal to the surplus.
func (rt *Runtime) SetQueueThreads(h handle.Handle, threads int) error {
	q, ok := rt.queues.Find(h)
	if !ok {
		return fmt.Errorf("task: queue handle %d not found", h)
	}
	q.setThreads(rt, threads)
	return nil
}

// QueueThreads returns the desired and currently-running worker counts
// for the queue named by h.
func (rt *Runtime) QueueThreads(h handle.Handle) (desired, current int, err error) {
	q, ok := rt.queues.Find(h)
	if !ok {
		return 0, 0, fmt.Errorf("task: queue handle %d not found", h)
	}
	d, c := q.threadCounts()
	return d, c, nil
}

// QueueDepth returns the number of tasks currently waiting in the queue
// named by h.
func (rt *Runtime) QueueDepth(h handle.Handle) (int, error) {
	q, ok := rt.queues.Find(h)
	if !ok {
		return 0, fmt.Errorf("task: queue handle %d not found", h)
	}
	return q.depth(), nil
}

// DeleteQueue releases a previously created user queue after draining
// it. The event and compute queues cannot be deleted.
func (rt *Runtime) DeleteQueue(h handle.Handle) error {
	if h == rt.event || h == rt.compute {
		return fmt.Errorf("task: cannot delete the event or compute queue")
	}
	q, ok := rt.queues.Release(h)
	if !ok {
		return fmt.Errorf("task: queue handle %d not found", h)
	}
	q.drain()
	return nil
}

// Shutdown drains every queue — event, compute, and any user queues —
// discarding pending tasks and waiting is the caller's responsibility
// via the shutdown coordinator's watchdog; Shutdown itself only signals
// every worker to exit.
func (rt *Runtime) Shutdown() {
	rt.queues.Each(func(_ handle.Handle, q *queue) bool {
		q.drain()
		return true
	})
}
