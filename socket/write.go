/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package socket

import (
	"context"
	"time"

	"github.com/nabbar/dimcore/task"
	"github.com/nabbar/dimcore/timerwheel"
)

// Write enqueues data onto the pre-write list. If the list was empty
// before this call, OnBufferChanged fires synchronously from inside
// Write itself (matching spec.md §4.4's "fires inside write() when
// waiting becomes nonzero"); the write loop goroutine picks the data up
// and performs the actual conn.Write asynchronously.
func (s *Socket) Write(data []byte) {
	if len(data) == 0 {
		return
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	wasEmpty := s.waitingBytes == 0
	if wasEmpty {
		s.oldestEnqueue = time.Now()
	}
	s.preWrite = append(s.preWrite, buf)
	s.waitingBytes += len(buf)
	waiting, incomplete := s.waitingBytes, s.incompleteBytes
	s.mu.Unlock()

	if wasEmpty {
		s.notify.OnBufferChanged(waiting, incomplete)
		s.wheel.Update(s.backlog, s.backlogTimeout, true)
	}

	select {
	case s.writerWake <- struct{}{}:
	default:
	}
}

// writeLoop drains the pre-write list into blocking conn.Write calls,
// one at a time, until the connection closes. Completion of each
// buffer moves its bytes from waiting into, then out of, incomplete;
// when incomplete returns to zero, OnBufferChanged is posted to the
// event queue (the async half of the §4.4 notification rule).
func (s *Socket) writeLoop() {
	for {
		buf, ok := s.nextWrite()
		if !ok {
			select {
			case <-s.writerWake:
				continue
			case <-s.closedCh:
				s.finishDrain()
				return
			}
		}

		_, err := s.conn.Write(buf)

		s.mu.Lock()
		s.incompleteBytes -= len(buf)
		incomplete := s.incompleteBytes
		s.mu.Unlock()

		if incomplete == 0 {
			s.rt.PostEvent(task.Func(func(context.Context) {
				s.mu.Lock()
				w, i := s.waitingBytes, s.incompleteBytes
				s.mu.Unlock()
				s.notify.OnBufferChanged(w, i)
			}))
		}

		if err != nil {
			s.Disconnect()
			s.finishDrain()
			return
		}
	}
}

func (s *Socket) nextWrite() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.preWrite) == 0 {
		return nil, false
	}
	buf := s.preWrite[0]
	s.preWrite = s.preWrite[1:]
	s.waitingBytes -= len(buf)
	s.incompleteBytes += len(buf)
	if len(s.preWrite) > 0 {
		s.oldestEnqueue = time.Now()
	}
	return buf, true
}

// backlogTimer adapts a Socket to timerwheel.Notifier for the pre-write
// backlog timeout: if the oldest queued write is older than
// backlogTimeout, the socket is force-disconnected (spec.md §4.4).
type backlogTimer struct {
	s *Socket
}

func (b *backlogTimer) OnTimer(now time.Time) time.Duration {
	s := b.s
	s.mu.Lock()
	empty := len(s.preWrite) == 0
	age := now.Sub(s.oldestEnqueue)
	s.mu.Unlock()

	if empty {
		return timerwheel.Infinite
	}
	if age >= s.backlogTimeout {
		s.Disconnect()
		return timerwheel.Infinite
	}
	return s.backlogTimeout - age
}
