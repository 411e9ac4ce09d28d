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

// Package http2 implements the server (and plain client) side of the
// HTTP/2 wire protocol: the connection preface handshake, the frame
// parser, the per-stream state machine, two-level flow control,
// settings negotiation and HPACK integration. A Conn is a
// socket.Notifier, so it slots into the byte socket layer exactly like
// any other protocol family the appsocket demux hands off to.
package http2

import (
	"bytes"
	"sync"

	"github.com/google/uuid"

	"github.com/nabbar/dimcore/atomic"
	"github.com/nabbar/dimcore/charbuf"
	"github.com/nabbar/dimcore/handle"
	"github.com/nabbar/dimcore/hpack"
	"github.com/nabbar/dimcore/intset"
	"github.com/nabbar/dimcore/socket"
)

// connections is the process-wide handle table of live connections,
// mirroring the original's HttpConnHandle/HandleContent pairing so a
// caller can name a connection by a small opaque value instead of a
// pointer, matching handle.Map's use elsewhere in this module.
var connections = handle.NewMap[*Conn]()

// Handle names one live Conn in the process-wide table.
type Handle = handle.Handle

// Dispatcher receives completed request (or push) messages. Router
// implements this to mint a request id, record the (conn, stream)
// correlation needed to reply later, and invoke the matching handler.
type Dispatcher interface {
	Dispatch(c *Conn, streamID uint32, msg *Message)
}

// Conn is one HTTP/2 connection's engine state. Every field is guarded
// by mu except the two flow-control windows (atomic, see flowcontrol.go)
// which the errgroup write fan-out reads concurrently with the event
// thread applying SETTINGS/WINDOW_UPDATE deltas.
type Conn struct {
	ID string // uuid, for log correlation only; never a map key

	mu       sync.Mutex
	sock     *socket.Socket
	outgoing bool
	closed   bool

	dispatcher Dispatcher

	// byte-level parser: consumes the preface, then alternates between a
	// 9-byte frame header and its length-prefixed payload.
	inbuf      []byte
	sawPreface bool
	haveHeader bool
	curHeader  frameHeader

	// frame-level parser
	headerBlock      bytes.Buffer
	continueStream   uint32
	pendingEndStream bool

	streams         map[uint32]*stream
	nextOutputID    uint32
	lastOutputID    uint32
	lastInputStream uint32

	localMaxFrameSize int
	remote            peerSettings
	unackedSettings   atomic.Value[int32]
	localSettingsSent bool

	connWindowOut atomic.Value[int32] // our budget to send DATA
	connWindowIn  atomic.Value[int32] // budget we've granted the peer

	pushIDs *intset.Set

	encoder *hpack.Table
	decoder *hpack.Table

	peerGoAway     bool
	peerLastStream uint32
	errmsg         string
}

// NewConn builds a Conn. outgoing selects client (true, odd stream ids,
// sends the preface first) vs server (false, even-numbered server-push
// ids, waits for the preface) role.
func NewConn(outgoing bool, dispatcher Dispatcher) *Conn {
	c := &Conn{
		ID:                uuid.NewString(),
		outgoing:          outgoing,
		dispatcher:        dispatcher,
		streams:           make(map[uint32]*stream),
		localMaxFrameSize: defaultMaxFrameSize,
		remote:            defaultPeerSettings(),
		pushIDs:           intset.New(),
		encoder:           hpack.NewTable(hpack.DefaultTableSize),
		decoder:           hpack.NewTable(hpack.DefaultTableSize),
	}
	c.unackedSettings = atomic.NewValue[int32]()
	c.connWindowOut = atomic.NewValue[int32]()
	c.connWindowOut.Store(DefaultWindowSize)
	c.connWindowIn = atomic.NewValue[int32]()
	c.connWindowIn.Store(DefaultWindowSize)

	if outgoing {
		c.nextOutputID = 1
		c.sawPreface = true
	} else {
		c.nextOutputID = 2
	}
	return c
}

// Register adds c to the process-wide handle table and returns its
// handle.
func Register(c *Conn) Handle { return connections.Insert(c) }

// Lookup returns the Conn registered under h, if any.
func Lookup(h Handle) (*Conn, bool) { return connections.Find(h) }

// Close removes c from the handle table and disconnects its socket.
func Close(h Handle) {
	if c, ok := connections.Release(h); ok && c.sock != nil {
		c.sock.Disconnect()
	}
}

// BindSocket implements socket.SocketBinder.
func (c *Conn) BindSocket(s *socket.Socket) {
	c.mu.Lock()
	c.sock = s
	c.mu.Unlock()
}

// OnConnect implements socket.Notifier for client-initiated connections:
// it emits the preface and an initial SETTINGS frame.
func (c *Conn) OnConnect(socket.ConnectInfo) {
	c.mu.Lock()
	var out charbuf.Buf
	out.AppendString(ConnectionPreface)
	c.writeLocalSettings(&out)
	c.localSettingsSent = true
	c.mu.Unlock()
	c.flush(&out)
}

func (c *Conn) OnConnectFailed() {}

// OnAccept implements socket.Notifier for server-side connections: it
// waits for the peer's preface (consumed from OnRead), so it sends
// nothing here, matching the original's listen-then-wait-for-preface
// startup order.
func (c *Conn) OnAccept(socket.ConnectInfo) {}

// OnRead implements socket.Notifier. Every completed read is fed to the
// frame parser; any bytes produced (ACKs, GOAWAY, replies queued by a
// handler that ran synchronously) are flushed back to the socket before
// returning.
func (c *Conn) OnRead(data []byte) bool {
	var out charbuf.Buf
	msgs, err := c.Recv(&out, data)
	c.flush(&out)

	for _, m := range msgs {
		c.deliver(m)
	}

	if err != nil {
		if c.sock != nil {
			c.sock.Disconnect()
		}
		return false
	}
	return true
}

func (c *Conn) OnDisconnect() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Conn) OnBufferChanged(waiting, incomplete int) {}

func (c *Conn) flush(out *charbuf.Buf) {
	if out.Len() == 0 || c.sock == nil {
		return
	}
	c.sock.Write(out.Bytes())
}

// Flush writes out to the connection's socket. Dispatch handlers that
// call Request/Reply/PushPromise/Data/ResetStream asynchronously (after
// OnRead has already returned) use this to push the resulting frames
// out instead of relying on OnRead's own flush.
func (c *Conn) Flush(out *charbuf.Buf) { c.flush(out) }

type pendingMsg struct {
	stream uint32
	msg    *Message
}

func (c *Conn) deliver(p pendingMsg) {
	if c.dispatcher != nil {
		c.dispatcher.Dispatch(c, p.stream, p.msg)
	}
}
