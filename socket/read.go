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
	"sync"

	"github.com/nabbar/dimcore/task"
)

// readLoop performs sequential blocking reads on the connection, posting
// each completion's OnRead call to the event queue and waiting for
// Socket.Read to be called again if the notifier paused read credit.
// Runs until the connection is closed or returns an error.
func (s *Socket) readLoop() {
	slice := s.pool.Acquire()
	defer slice.Release()

	for {
		n, err := s.conn.Read(slice.Buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, slice.Buf[:n])
			if !s.deliverRead(data) {
				s.waitForResume()
			}
		}
		if err != nil {
			s.deliverRead(nil) // zero-length read: orderly or error shutdown
			break
		}
	}

	s.Disconnect()
	s.finishDrain()
}

// deliverRead posts data to the notifier on the event queue and blocks
// until the callback's return value is known, since the reader loop
// must not issue another read while credit is paused.
func (s *Socket) deliverRead(data []byte) bool {
	var wg sync.WaitGroup
	var resume bool
	wg.Add(1)

	s.rt.PostEvent(task.Func(func(context.Context) {
		resume = s.notify.OnRead(data)
		wg.Done()
	}))
	wg.Wait()

	if !resume {
		s.mu.Lock()
		s.readPaused = true
		s.mu.Unlock()
	}
	return resume
}

func (s *Socket) waitForResume() {
	<-s.readWake
}
