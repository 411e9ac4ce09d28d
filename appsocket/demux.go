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

package appsocket

import (
	"sync"
	"time"

	liberr "github.com/nabbar/dimcore/errors"
	"github.com/nabbar/dimcore/socket"
	"github.com/nabbar/dimcore/socket/buffer"
	"github.com/nabbar/dimcore/task"
	"github.com/nabbar/dimcore/timerwheel"
)

// matchCheckInterval is how often an unmatched connection's deadline is
// re-checked, per spec.md §4.5 ("checked on a 2-second timer").
const matchCheckInterval = 2 * time.Second

// Listen accepts connections on endpoint and demultiplexes each one
// through reg before handing it to the matched family's Factory. Until a
// family matches, every accepted connection is fronted by a hidden
// matchNotifier that buffers incoming bytes and is invisible to callers.
func Listen(rt *task.Runtime, wheel *timerwheel.Wheel, pool *buffer.Pool, reg *Registry, endpoint string, matchTimeout time.Duration, backlogTimeout time.Duration) (*socket.Listener, liberr.Error) {
	factory := func() socket.Notifier {
		return &matchNotifier{
			reg:      reg,
			endpoint: endpoint,
			wheel:    wheel,
			timeout:  matchTimeout,
		}
	}

	ln, err := socket.Listen(rt, wheel, pool, endpoint, factory, backlogTimeout)
	if err != nil {
		return nil, ErrListenFailed.Error(err)
	}
	return ln, nil
}

// matchNotifier is the hidden byte-socket notifier attached to every
// freshly accepted connection. It buffers reads until a family matches,
// then becomes a transparent forwarding facade in front of the real
// Notifier the matched Factory produced. Our socket.Socket does not
// support swapping its installed Notifier after construction (unlike the
// original's ISocketNotify, which is literally replaced), so the facade
// achieves the same "installed for the life of the connection" effect by
// forwarding every subsequent callback to the delegate once one exists.
type matchNotifier struct {
	reg      *Registry
	endpoint string
	wheel    *timerwheel.Wheel
	timeout  time.Duration

	mu       sync.Mutex
	sock     *socket.Socket
	info     socket.ConnectInfo
	buffered []byte
	deadline time.Time
	delegate socket.Notifier
	timer    *matchTimer
}

func (n *matchNotifier) BindSocket(s *socket.Socket) {
	n.mu.Lock()
	n.sock = s
	n.mu.Unlock()
}

func (n *matchNotifier) OnConnect(socket.ConnectInfo) {}
func (n *matchNotifier) OnConnectFailed()             {}

func (n *matchNotifier) OnAccept(info socket.ConnectInfo) {
	n.mu.Lock()
	n.info = info
	n.deadline = time.Now().Add(n.timeout)
	n.timer = &matchTimer{n: n}
	n.mu.Unlock()

	first := matchCheckInterval
	if n.timeout < first {
		first = n.timeout
	}
	n.wheel.Update(n.timer, first, true)
}

func (n *matchNotifier) OnRead(data []byte) bool {
	n.mu.Lock()
	delegate := n.delegate
	n.mu.Unlock()
	if delegate != nil {
		return delegate.OnRead(data)
	}

	if len(data) == 0 {
		return true
	}

	n.mu.Lock()
	n.buffered = append(n.buffered, data...)
	buf := n.buffered
	n.mu.Unlock()

	fam, matched, giveUp := runMatch(n.reg, buf)
	if giveUp {
		n.stopTimer()
		n.sock.Disconnect()
		return true
	}
	if !matched {
		return true
	}

	factory := n.reg.factoryFor(n.endpoint, fam)
	if factory == nil {
		n.stopTimer()
		n.sock.Disconnect()
		return true
	}

	delegate = factory.Create()
	n.stopTimer()

	n.mu.Lock()
	n.delegate = delegate
	replay := n.buffered
	n.buffered = nil
	info := n.info
	sock := n.sock
	n.mu.Unlock()

	if b, ok := delegate.(socket.SocketBinder); ok {
		b.BindSocket(sock)
	}
	delegate.OnAccept(info)
	return delegate.OnRead(replay)
}

func (n *matchNotifier) OnDisconnect() {
	n.mu.Lock()
	delegate := n.delegate
	n.mu.Unlock()
	if delegate != nil {
		delegate.OnDisconnect()
	}
}

func (n *matchNotifier) OnBufferChanged(waiting, incomplete int) {
	n.mu.Lock()
	delegate := n.delegate
	n.mu.Unlock()
	if delegate != nil {
		delegate.OnBufferChanged(waiting, incomplete)
	}
}

func (n *matchNotifier) stopTimer() {
	n.mu.Lock()
	t := n.timer
	n.mu.Unlock()
	if t != nil {
		n.wheel.CloseWait(t)
	}
}

// matchTimer adapts a matchNotifier to timerwheel.Notifier for the
// unmatched-connection timeout: once matched, it cancels itself; while
// unmatched, it re-checks the deadline every matchCheckInterval and
// disconnects the socket once the deadline has passed.
type matchTimer struct {
	n *matchNotifier
}

func (t *matchTimer) OnTimer(now time.Time) time.Duration {
	n := t.n
	n.mu.Lock()
	delegate := n.delegate
	deadline := n.deadline
	sock := n.sock
	n.mu.Unlock()

	if delegate != nil {
		return timerwheel.Infinite
	}
	if !now.Before(deadline) {
		sock.Disconnect()
		return timerwheel.Infinite
	}

	remaining := deadline.Sub(now)
	if remaining > matchCheckInterval {
		remaining = matchCheckInterval
	}
	return remaining
}
