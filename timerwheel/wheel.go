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

// Package timerwheel implements a monotonic min-heap of scheduled
// callbacks driven from the event queue, with reschedule-if-sooner and
// close-and-wait semantics.
package timerwheel

import (
	"container/heap"
	"context"
	"math"
	"sync"
	"time"

	"github.com/nabbar/dimcore/task"
)

// Infinite, returned from Notifier.OnTimer, means "do not reschedule".
const Infinite = time.Duration(math.MaxInt64)

// Notifier is notified when its timer expires. The returned duration is
// the wait until the next firing, or Infinite to stop rescheduling.
type Notifier interface {
	OnTimer(now time.Time) time.Duration
}

type record struct {
	instance  uint64
	expires   time.Time
	active    bool
	cancelled bool
}

// Wheel drives one or more notifiers' timers. Update is safe to call
// from any goroutine; OnTimer callbacks are always invoked as tasks
// posted to the event queue, matching the spec's "invoked on the event
// thread" requirement regardless of which goroutine detected expiry.
type Wheel struct {
	rt *task.Runtime

	mu      sync.Mutex
	heap    entryHeap
	records map[Notifier]*record
	current Notifier

	wake    chan struct{}
	closeCh chan struct{}
	closed  bool
}

// New starts a Wheel whose due callbacks are posted to rt's event queue.
func New(rt *task.Runtime) *Wheel {
	w := &Wheel{
		rt:      rt,
		records: make(map[Notifier]*record),
		wake:    make(chan struct{}, 1),
		closeCh: make(chan struct{}),
	}
	go w.drive()
	return w
}

// Update (re)schedules notify to fire after wait. If onlyIfSooner is
// true and notify already has a pending, active timer expiring sooner
// than now+wait, the call is a no-op.
func (w *Wheel) Update(notify Notifier, wait time.Duration, onlyIfSooner bool) {
	w.mu.Lock()

	rec, ok := w.records[notify]
	if !ok {
		rec = &record{}
		w.records[notify] = rec
	}

	newExp := time.Now().Add(wait)
	if onlyIfSooner && rec.active && !newExp.Before(rec.expires) {
		w.mu.Unlock()
		return
	}

	rec.instance++
	rec.expires = newExp
	rec.active = true
	rec.cancelled = false
	heap.Push(&w.heap, &entry{expires: newExp, instance: rec.instance, notify: notify})

	w.mu.Unlock()
	w.nudge()
}

// CloseWait cancels notify's pending timer. If its callback is not
// currently running, it is cancelled immediately. If it is running as
// the reentrant caller of CloseWait (calling CloseWait on itself from
// within its own OnTimer), it is marked so the dispatcher discards the
// return value and does not reschedule. Being invoked concurrently by
// a second goroutine while the callback runs on a different one is, as
// in the original design, not a configuration this runtime produces
// (all OnTimer invocations are serialized through the single event
// queue), so that branch is not separately implemented.
func (w *Wheel) CloseWait(notify Notifier) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec, ok := w.records[notify]
	if !ok {
		return
	}

	if w.current == notify {
		rec.cancelled = true
		return
	}

	rec.instance++
	rec.active = false
}

// Close stops the wheel's internal driver goroutine. Pending timers are
// discarded without firing.
func (w *Wheel) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()
	close(w.closeCh)
}

func (w *Wheel) nudge() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// drive runs on its own goroutine for the wheel's lifetime, sleeping
// until the earliest expiration (or forever if the heap is empty), and
// posting due callbacks onto the event queue.
func (w *Wheel) drive() {
	for {
		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}

		if len(w.heap) == 0 {
			w.mu.Unlock()
			select {
			case <-w.wake:
				continue
			case <-w.closeCh:
				return
			}
		}

		top := w.heap[0]
		now := time.Now()
		if top.expires.After(now) {
			wait := top.expires.Sub(now)
			w.mu.Unlock()
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
				continue
			case <-w.wake:
				timer.Stop()
				continue
			case <-w.closeCh:
				timer.Stop()
				return
			}
		}

		e := heap.Pop(&w.heap).(*entry)
		rec, ok := w.records[e.notify]
		if !ok || rec.instance != e.instance || !rec.active {
			w.mu.Unlock()
			continue
		}

		notify := e.notify
		w.current = notify
		w.mu.Unlock()

		w.rt.PostEvent(task.Func(func(context.Context) {
			w.fire(notify)
		}))
	}
}

// fire invokes notify's callback and applies its reschedule decision.
// Runs as an event-queue task.
func (w *Wheel) fire(notify Notifier) {
	next := notify.OnTimer(time.Now())

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == notify {
		w.current = nil
	}

	rec, ok := w.records[notify]
	if !ok {
		return
	}

	if rec.cancelled {
		rec.cancelled = false
		rec.active = false
		return
	}

	if next == Infinite {
		rec.active = false
		return
	}

	rec.instance++
	rec.expires = time.Now().Add(next)
	rec.active = true
	heap.Push(&w.heap, &entry{expires: rec.expires, instance: rec.instance, notify: notify})
	w.nudgeLocked()
}

func (w *Wheel) nudgeLocked() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}
