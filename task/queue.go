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
	"sync"
)

// endThread is the sentinel task a worker pops to know it should
// decrement the queue's live-worker count and exit, used by
// SetQueueThreads to shrink a pool.
type endThread struct{}

func (endThread) Run(context.Context) {}

type queue struct {
	name string

	mu      sync.Mutex
	cond    *sync.Cond
	items   []Task
	desired int
	current int
	closed  bool
}

func newQueue(name string, threads int) *queue {
	q := &queue{name: name, desired: threads}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// post appends a batch of tasks atomically: all tasks in the batch land
// adjacent in FIFO order, matching the single-post ordering guarantee.
func (q *queue) post(tasks ...Task) {
	if len(tasks) == 0 {
		return
	}

	q.mu.Lock()
	q.items = append(q.items, tasks...)
	q.mu.Unlock()

	q.cond.Broadcast()
}

// setThreads grows the pool by spawning additional workers, or shrinks
// it by posting sentinel end-thread tasks equal to the surplus.
func (q *queue) setThreads(rt *Runtime, n int) {
	q.mu.Lock()
	delta := n - q.desired
	q.desired = n
	q.mu.Unlock()

	if delta > 0 {
		for i := 0; i < delta; i++ {
			q.spawn(rt)
		}
		return
	}

	if delta < 0 {
		sentinels := make([]Task, -delta)
		for i := range sentinels {
			sentinels[i] = endThread{}
		}
		q.post(sentinels...)
	}
}

func (q *queue) spawn(rt *Runtime) {
	q.mu.Lock()
	q.current++
	q.mu.Unlock()

	go q.worker(rt)
}

// worker runs until it pops an endThread sentinel.
func (q *queue) worker(rt *Runtime) {
	ctx := rt.taskContext(q)

	for {
		q.mu.Lock()
		for len(q.items) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.items) == 0 && q.closed {
			q.current--
			q.mu.Unlock()
			return
		}

		t := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()

		if _, stop := t.(endThread); stop {
			q.mu.Lock()
			q.current--
			q.mu.Unlock()
			return
		}

		t.Run(ctx)
	}
}

// drain marks the queue closed, waking every worker so it exits once
// the backlog (if any) is discarded, per the shutdown contract: pending
// tasks at shutdown are not run.
func (q *queue) drain() {
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.mu.Unlock()
	q.cond.Broadcast()
}

func (q *queue) threadCounts() (desired, current int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.desired, q.current
}

func (q *queue) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
