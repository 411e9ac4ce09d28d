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
	"time"

	"github.com/nabbar/dimcore/atomic"
	"github.com/nabbar/dimcore/charbuf"
)

// StreamState is one peer half's position in RFC 7540 §5.1's state
// machine, plus the Deleted grace state the original adds for garbage
// collection.
type StreamState int

const (
	StreamIdle StreamState = iota
	StreamReserved
	StreamOpen
	StreamHalfClosed
	StreamClosed
	StreamDeleted
)

func (s StreamState) String() string {
	switch s {
	case StreamIdle:
		return "idle"
	case StreamReserved:
		return "reserved"
	case StreamOpen:
		return "open"
	case StreamHalfClosed:
		return "half-closed"
	case StreamClosed:
		return "closed"
	case StreamDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// deletedGrace is how long a Closed stream lingers before findAlways
// sweeps it from the stream map, so a frame that was already in flight for
// a just-reset stream is recognized as a stream error instead of
// silently reusing a vacated id.
const deletedGrace = 5 * time.Second

// stream is one HTTP/2 stream's server-side bookkeeping: the pair of
// half states, the in-progress message, flow window and any data held
// back by flow control.
type stream struct {
	id uint32

	localState  StreamState
	remoteState StreamState
	closedAt    time.Time

	msg *Message

	window      atomic.Value[int32]
	unsent      charbuf.Buf
	unsentFinal bool
}

func newStream(id uint32, initialWindow int32) *stream {
	s := &stream{id: id, localState: StreamIdle, remoteState: StreamIdle}
	s.window = atomic.NewValue[int32]()
	s.window.Store(initialWindow)
	return s
}

// openRemote moves the remote half of an idle stream to Open (a HEADERS
// frame without END_STREAM), or to HalfClosed when the frame also
// carried END_STREAM; openLocal does the same for the local half.
func (s *stream) openRemote(endStream bool) {
	if s.remoteState == StreamIdle {
		s.remoteState = StreamOpen
	}
	if endStream {
		s.remoteState = StreamHalfClosed
	}
}

func (s *stream) openLocal(endStream bool) {
	if s.localState == StreamIdle {
		s.localState = StreamOpen
	}
	if endStream {
		s.localState = StreamHalfClosed
	}
}

// closed reports whether both halves have finished, meaning the stream
// is ready to move to Closed and start its Deleted grace period.
func (s *stream) closed() bool {
	done := func(st StreamState) bool { return st == StreamHalfClosed || st == StreamClosed }
	return done(s.localState) && done(s.remoteState)
}

func (s *stream) reset() {
	s.localState = StreamClosed
	s.remoteState = StreamClosed
}

// maybeClose promotes both halves to Closed and starts the Deleted
// grace period once each has at least half-closed, so findAlways can
// reclaim the id after deletedGrace elapses.
func (s *stream) maybeClose() {
	if s.closed() && s.localState != StreamClosed {
		s.localState = StreamClosed
		s.remoteState = StreamClosed
		s.closedAt = timeNow()
	}
}
