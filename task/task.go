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

// Package task implements the handle-indexed task queue runtime: one
// designated event queue run by a single worker, one compute queue run
// by a configurable worker pool, and any number of user-created queues.
package task

import "context"

// Task is a work item with a single entry point. A Task runs to
// completion on whichever worker pops it off its queue; there is no
// yielding primitive. ctx carries the identity of the worker goroutine
// running it, so a Task can call Runtime.InEventThread(ctx) to find out
// whether it is executing on the event thread.
type Task interface {
	Run(ctx context.Context)
}

// Func adapts a plain function to the Task interface.
type Func func(ctx context.Context)

// Run invokes f.
func (f Func) Run(ctx context.Context) {
	f(ctx)
}
