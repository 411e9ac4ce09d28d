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

import (
	"golang.org/x/sync/errgroup"

	"github.com/nabbar/dimcore/charbuf"
)

// flushStreamLocked writes as much of st's unsent buffer as the
// connection and stream windows currently allow. c.mu must be held.
func (c *Conn) flushStreamLocked(out *charbuf.Buf, st *stream) {
	avail := c.connWindowOut.Load()
	if sw := st.window.Load(); sw < avail {
		avail = sw
	}
	if avail <= 0 {
		return
	}

	data := st.unsent.Bytes()
	n := len(data)
	if n == 0 {
		return
	}
	if n > int(avail) {
		n = int(avail)
	}

	flags := FrameFlags(0)
	if n == len(data) && st.unsentFinal {
		flags |= FlagEndStream
	}

	out.Append(appendFrameHeader(nil, n, FrameData, flags, st.id))
	out.Append(data[:n])

	addWindow(c.connWindowOut, -int32(n))
	addWindow(st.window, -int32(n))
	st.unsent.Drain(n)

	if flags.Has(FlagEndStream) {
		st.maybeClose()
	}
}

// FlushPending re-evaluates every stream with a non-empty unsent buffer
// and writes whatever their (possibly just-grown) windows now permit.
// Call this after crediting the connection or a stream's window via
// WINDOW_UPDATE, or after a SETTINGS change shifts every stream's
// window at once. Each stream's share is sized by an errgroup fan-out
// so a connection with many stalled streams doesn't compute its
// budgets one at a time on the event goroutine; the frames themselves
// are still appended to out in a single pass, since out and the window
// debits must stay serialized under c.mu.
func (c *Conn) FlushPending(out *charbuf.Buf) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushPendingLocked(out)
}

// flushPendingLocked is FlushPending's body for callers (the frame
// parser) that already hold c.mu.
func (c *Conn) flushPendingLocked(out *charbuf.Buf) {
	var ids []uint32
	for id, st := range c.streams {
		if !st.unsent.Empty() {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return
	}

	type chunk struct {
		data      []byte
		endStream bool
	}
	chunks := make([]chunk, len(ids))

	var eg errgroup.Group
	for i, id := range ids {
		i, st := i, c.streams[id]
		eg.Go(func() error {
			avail := c.connWindowOut.Load()
			if sw := st.window.Load(); sw < avail {
				avail = sw
			}
			if avail <= 0 {
				return nil
			}

			data := st.unsent.Bytes()
			n := len(data)
			if n == 0 {
				return nil
			}
			if n > int(avail) {
				n = int(avail)
			}

			buf := make([]byte, n)
			copy(buf, data[:n])
			chunks[i] = chunk{data: buf, endStream: n == len(data) && st.unsentFinal}
			return nil
		})
	}
	_ = eg.Wait() // every Go func above is infallible; kept for the fan-out/join idiom

	// Each goroutine above sized its chunk against the connection window
	// as it stood before any stream's share was debited, so two streams
	// can both claim from the same budget. The append pass re-clamps
	// against what's actually left, serialized by c.mu, so the sum of
	// what's written here never exceeds the peer-granted connection
	// window regardless of how many streams raced to compute a share of it.
	remaining := c.connWindowOut.Load()
	for i, id := range ids {
		ck := chunks[i]
		if len(ck.data) == 0 {
			continue
		}
		if remaining <= 0 {
			continue
		}
		n := len(ck.data)
		if int32(n) > remaining {
			n = int(remaining)
			ck.data = ck.data[:n]
			ck.endStream = false
		}
		st := c.streams[id]

		flags := FrameFlags(0)
		if ck.endStream {
			flags |= FlagEndStream
		}
		out.Append(appendFrameHeader(nil, len(ck.data), FrameData, flags, id))
		out.Append(ck.data)

		addWindow(c.connWindowOut, -int32(len(ck.data)))
		addWindow(st.window, -int32(len(ck.data)))
		st.unsent.Drain(len(ck.data))
		remaining -= int32(len(ck.data))

		if ck.endStream {
			st.maybeClose()
		}
	}
}
