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
	"net"
	"sync"
	"time"

	"github.com/nabbar/dimcore/socket/buffer"
	"github.com/nabbar/dimcore/task"
	"github.com/nabbar/dimcore/timerwheel"
)

// DefaultMaxReads and DefaultMaxWrites match spec.md §4.4's defaults.
// MaxReads is retained as a compatibility constant: the original keeps
// up to 10 reads in flight per socket via the OS completion port, but a
// single net.Conn's byte stream is read by one blocking goroutine in
// Go, so at most one read is ever outstanding here regardless of this
// value (see DESIGN.md's socket entry).
const (
	DefaultMaxReads  = 10
	DefaultMaxWrites = 100
)

// Socket is one completion-based connection: a background reader
// goroutine and write pipeline that report every completion as a task
// posted to rt's event queue, so Notifier callbacks always run there.
type Socket struct {
	rt    *task.Runtime
	wheel *timerwheel.Wheel
	pool  *buffer.Pool
	conn  net.Conn

	maxWrites      int
	backlogTimeout time.Duration

	mu          sync.Mutex
	mode        Mode
	notify      Notifier
	readPaused  bool
	readStopped bool
	inFlight    int // in-flight requests not yet drained (read + writes)

	preWrite       [][]byte
	waitingBytes   int
	incompleteBytes int
	oldestEnqueue  time.Time
	writerWake     chan struct{}
	readWake       chan struct{}
	closedCh       chan struct{}

	backlog *backlogTimer

	disconnectOnce sync.Once
}

func newSocket(rt *task.Runtime, wheel *timerwheel.Wheel, pool *buffer.Pool, conn net.Conn, notify Notifier, backlogTimeout time.Duration) *Socket {
	s := &Socket{
		rt:             rt,
		wheel:          wheel,
		pool:           pool,
		conn:           conn,
		notify:         notify,
		maxWrites:      DefaultMaxWrites,
		backlogTimeout: backlogTimeout,
		writerWake:     make(chan struct{}, 1),
		readWake:       make(chan struct{}, 1),
		closedCh:       make(chan struct{}),
	}
	s.backlog = &backlogTimer{s: s}
	if b, ok := notify.(SocketBinder); ok {
		b.BindSocket(s)
	}
	return s
}

// Mode returns the socket's current state-machine mode.
func (s *Socket) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Socket) setMode(m Mode) {
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
}

// activate transitions the socket to Active, starts its reader and
// writer goroutines, and posts the connect/accept completion.
func (s *Socket) activate(announce func()) {
	s.setMode(Active)
	s.mu.Lock()
	s.inFlight += 2 // the reader loop and the writer loop
	s.mu.Unlock()

	go s.readLoop()
	go s.writeLoop()

	s.rt.PostEvent(task.Func(func(context.Context) { announce() }))
}

// Disconnect closes the underlying connection. In-flight reads/writes
// drain, then Notifier.OnDisconnect is called once on the event queue.
func (s *Socket) Disconnect() {
	s.disconnectOnce.Do(func() {
		s.setMode(Closing)
		_ = s.conn.Close()
		s.wheel.CloseWait(s.backlog)
		close(s.closedCh)
	})
}

// finishDrain is called once the reader loop and writer loop have both
// observed the connection is closed; it transitions to Closed and
// reports OnDisconnect exactly once.
func (s *Socket) finishDrain() {
	s.mu.Lock()
	s.inFlight--
	done := s.inFlight <= 0
	s.mu.Unlock()

	if !done {
		return
	}

	s.setMode(Closed)
	s.rt.PostEvent(task.Func(func(context.Context) { s.notify.OnDisconnect() }))
}

// Read resumes read credit after Notifier.OnRead returned false.
func (s *Socket) Read() {
	s.mu.Lock()
	wasPaused := s.readPaused
	s.readPaused = false
	s.mu.Unlock()

	if wasPaused {
		select {
		case s.readWake <- struct{}{}:
		default:
		}
	}
}
