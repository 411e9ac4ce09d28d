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

package http2

import "github.com/nabbar/dimcore/atomic"

// addWindow atomically adds delta to v via a compare-and-swap loop
// (atomic.Value[T] has no built-in Add) and returns the resulting
// value. Both the connection window and every stream window are read
// by the errgroup write fan-out concurrently with the event thread
// applying WINDOW_UPDATE and SETTINGS deltas, so this is the one piece
// of connection state that is genuinely lock-free rather than folded
// into the connection's single mutex.
func addWindow(v atomic.Value[int32], delta int32) int32 {
	for {
		old := v.Load()
		next := old + delta
		if v.CompareAndSwap(old, next) {
			return next
		}
	}
}
