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

// Package socket implements the completion-based byte socket layer over
// net.Conn: a background reader goroutine feeds completions onto the
// task runtime's event queue so every notifier callback still executes
// on the single event thread, a pre-write/in-flight write pipeline with
// a backlog timeout, and a fixed-slice buffer pool for read/write
// staging.
package socket

import "net"

// Mode is a socket's position in its state machine.
type Mode int

const (
	// Inactive sockets are not yet connected.
	Inactive Mode = iota
	// Accepting sockets are server-side, waiting for accept to finish.
	Accepting
	// Connecting sockets are client-side, dialing out.
	Connecting
	// Active sockets are actively reading and writing.
	Active
	// Closing sockets have had their handle closed; in-flight requests
	// are still draining.
	Closing
	// Closed is terminal: the final zero-length read has been seen and
	// every in-flight request has drained.
	Closed
)

func (m Mode) String() string {
	switch m {
	case Inactive:
		return "inactive"
	case Accepting:
		return "accepting"
	case Connecting:
		return "connecting"
	case Active:
		return "active"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// ConnectInfo carries both ends of a connection, reported on connect or
// accept completion.
type ConnectInfo struct {
	Remote net.Addr
	Local  net.Addr
}

// Notifier receives completion callbacks for one Socket. Every method is
// invoked as a task on the owning Runtime's event queue (spec.md §5's
// single-event-thread discipline), never directly from the reader or
// writer goroutine that detected the event.
type Notifier interface {
	// OnConnect is called once a client-side Connect succeeds.
	OnConnect(info ConnectInfo)
	// OnConnectFailed is called if a client-side Connect fails.
	OnConnectFailed()
	// OnAccept is called once a server-side accept completes.
	OnAccept(info ConnectInfo)
	// OnRead is called with each completed read. Returning false pauses
	// further reads until Socket.Read is called to resume (read
	// credit). A zero-length data slice signals orderly peer shutdown;
	// the socket transitions to Closed after this call returns.
	OnRead(data []byte) bool
	// OnDisconnect is called once after every in-flight request has
	// drained following a close or failure.
	OnDisconnect()
	// OnBufferChanged is called when the waiting (pre-write) byte count
	// becomes nonzero, or when the incomplete (in-flight write) byte
	// count reaches zero.
	OnBufferChanged(waiting, incomplete int)
}

// SocketBinder is implemented by a Notifier that wants a back-reference
// to the Socket it is attached to, matching the original's private
// ISocketNotify::m_socket field (set by the friend SocketBase once the
// notifier is attached). BindSocket is called once, before any other
// Notifier method, so Write/Read/Disconnect can be called back on the
// same socket that is about to deliver events to it.
type SocketBinder interface {
	BindSocket(s *Socket)
}

// BaseNotifier implements Notifier with no-op bodies so callers only
// need to override the callbacks they care about, matching the
// original's virtual methods with empty default bodies.
type BaseNotifier struct{}

func (BaseNotifier) OnConnect(ConnectInfo)                   {}
func (BaseNotifier) OnConnectFailed()                        {}
func (BaseNotifier) OnAccept(ConnectInfo)                     {}
func (BaseNotifier) OnRead(data []byte) bool                  { return true }
func (BaseNotifier) OnDisconnect()                            {}
func (BaseNotifier) OnBufferChanged(waiting, incomplete int)  {}

// Factory produces the Notifier that will own an accepted connection.
type Factory func() Notifier
