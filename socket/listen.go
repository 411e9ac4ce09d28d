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
	"time"

	liberr "github.com/nabbar/dimcore/errors"
	"github.com/nabbar/dimcore/socket/buffer"
	"github.com/nabbar/dimcore/task"
	"github.com/nabbar/dimcore/timerwheel"
)

// Listener accepts connections on one endpoint, handing each to a new
// Notifier produced by its Factory.
type Listener struct {
	ln      net.Listener
	rt      *task.Runtime
	wheel   *timerwheel.Wheel
	pool    *buffer.Pool
	factory Factory
	timeout time.Duration

	closed chan struct{}
}

// Listen starts accepting connections on endpoint (host:port). Each
// accepted connection is handed to a Notifier from factory and
// transitioned straight to Active, matching spec.md §4.4's accept path
// (Inactive -accept-> Accepting -ok-> Active).
func Listen(rt *task.Runtime, wheel *timerwheel.Wheel, pool *buffer.Pool, endpoint string, factory Factory, backlogTimeout time.Duration) (*Listener, liberr.Error) {
	ln, err := net.Listen("tcp", endpoint)
	if err != nil {
		return nil, ErrListenFailed.Error(err)
	}

	l := &Listener{
		ln:      ln,
		rt:      rt,
		wheel:   wheel,
		pool:    pool,
		factory: factory,
		timeout: backlogTimeout,
		closed:  make(chan struct{}),
	}
	go l.acceptLoop()
	return l, nil
}

// Addr returns the listener's bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Close stops accepting new connections. Already-accepted sockets are
// unaffected.
func (l *Listener) Close() error {
	select {
	case <-l.closed:
	default:
		close(l.closed)
	}
	return l.ln.Close()
}

func (l *Listener) acceptLoop() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-l.closed:
				return
			default:
				continue
			}
		}

		notify := l.factory()
		s := newSocket(l.rt, l.wheel, l.pool, conn, notify, l.timeout)
		s.setMode(Accepting)
		info := ConnectInfo{Remote: conn.RemoteAddr(), Local: conn.LocalAddr()}
		s.activate(func() { notify.OnAccept(info) })
	}
}

// Connect dials remote, reporting completion via notify.OnConnect or
// notify.OnConnectFailed. If initialData is non-empty, it is queued as
// the socket's first write once the connection is active.
func Connect(rt *task.Runtime, wheel *timerwheel.Wheel, pool *buffer.Pool, notify Notifier, remote string, timeout time.Duration, backlogTimeout time.Duration, initialData []byte) {
	go func() {
		conn, err := net.DialTimeout("tcp", remote, timeout)
		if err != nil {
			rt.PostEvent(task.Func(func(context.Context) { notify.OnConnectFailed() }))
			return
		}

		s := newSocket(rt, wheel, pool, conn, notify, backlogTimeout)
		s.setMode(Connecting)
		info := ConnectInfo{Remote: conn.RemoteAddr(), Local: conn.LocalAddr()}
		s.activate(func() { notify.OnConnect(info) })

		if len(initialData) > 0 {
			s.Write(initialData)
		}
	}()
}
