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
	"bytes"
	"encoding/binary"
	"time"

	"github.com/nabbar/dimcore/charbuf"
)

// Recv feeds newly-read bytes through the byte-level and frame-level
// parsers. It returns the requests/pushes/replies that completed as a
// result (to be handed to Dispatch) and appends any bytes the protocol
// needs to send back (ACKs, WINDOW_UPDATE, GOAWAY) to out. A non-nil
// error means the connection must be closed after out is flushed.
func (c *Conn) Recv(out *charbuf.Buf, src []byte) ([]pendingMsg, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inbuf = append(c.inbuf, src...)
	var msgs []pendingMsg

	for {
		if !c.sawPreface {
			if len(c.inbuf) < len(ConnectionPreface) {
				return msgs, nil
			}
			if !bytes.Equal(c.inbuf[:len(ConnectionPreface)], []byte(ConnectionPreface)) {
				return msgs, c.fail(out, newConnError(codeProtocol, "bad connection preface"))
			}
			c.inbuf = c.inbuf[len(ConnectionPreface):]
			c.sawPreface = true
			continue
		}

		if !c.haveHeader {
			if len(c.inbuf) < frameHeaderLen {
				return msgs, nil
			}
			h := parseFrameHeader(c.inbuf[:frameHeaderLen])
			if h.length > c.localMaxFrameSize {
				return msgs, c.fail(out, newConnError(codeFrameSize, "frame exceeds max frame size"))
			}
			c.curHeader = h
			c.haveHeader = true
			c.inbuf = c.inbuf[frameHeaderLen:]
		}

		if len(c.inbuf) < c.curHeader.length {
			return msgs, nil
		}

		payload := c.inbuf[:c.curHeader.length]
		c.inbuf = c.inbuf[c.curHeader.length:]
		h := c.curHeader
		c.haveHeader = false

		if c.continueStream != 0 && (h.typ != FrameContinuation || h.stream != c.continueStream) {
			return msgs, c.fail(out, newConnError(codeProtocol, "expected CONTINUATION"))
		}

		if err := c.onFrame(out, &msgs, h, payload); err != nil {
			return msgs, c.fail(out, err)
		}
	}
}

// fail converts a connection-level error into a GOAWAY frame appended
// to out (stream errors are handled inline by their caller via
// RST_STREAM and never reach here).
func (c *Conn) fail(out *charbuf.Buf, err error) error {
	if ce, ok := err.(*connError); ok {
		c.errmsg = ce.msg
		appendGoAway(out, c.lastInputStream, ce.code)
		return ce
	}
	return err
}

func (c *Conn) onFrame(out *charbuf.Buf, msgs *[]pendingMsg, h frameHeader, payload []byte) error {
	switch h.typ {
	case FrameSettings:
		return c.onSettings(out, h, payload)
	case FrameHeaders:
		return c.onHeaders(msgs, h, payload)
	case FrameContinuation:
		return c.onContinuation(msgs, h, payload)
	case FrameData:
		return c.onData(out, msgs, h, payload)
	case FramePriority:
		return c.onPriority(h, payload)
	case FrameRstStream:
		return c.onRstStream(h, payload)
	case FramePing:
		return c.onPing(out, h, payload)
	case FrameGoAway:
		return c.onGoAway(h, payload)
	case FrameWindowUpdate:
		return c.onWindowUpdate(out, h, payload)
	case FramePushPromise:
		return newConnError(codeProtocol, "unexpected PUSH_PROMISE")
	default:
		// unknown frame types are ignored per RFC 7540 §4.1, unless we
		// are mid header-block (already rejected above).
		return nil
	}
}

func (c *Conn) onSettings(out *charbuf.Buf, h frameHeader, payload []byte) error {
	if h.stream != 0 {
		return newConnError(codeProtocol, "SETTINGS on non-zero stream")
	}
	if h.flags.Has(FlagAck) {
		if len(payload) != 0 {
			return newConnError(codeFrameSize, "SETTINGS ACK with payload")
		}
		addWindow(c.unackedSettings, -1)
		return nil
	}

	entries, err := decodeSettings(payload)
	if err != nil {
		return newConnError(codeFrameSize, "malformed SETTINGS")
	}

	delta, err := c.remote.apply(entries)
	if err != nil {
		return newConnError(codeFlowControl, "invalid SETTINGS value")
	}
	if delta != 0 {
		for _, st := range c.streams {
			addWindow(st.window, delta)
		}
		if delta > 0 {
			c.flushPendingLocked(out)
		}
	}

	out.Append(appendFrameHeader(nil, 0, FrameSettings, FlagAck, 0))

	if !c.outgoing && !c.localSettingsSent {
		c.writeLocalSettings(out)
		c.localSettingsSent = true
	}
	return nil
}

func (c *Conn) onHeaders(msgs *[]pendingMsg, h frameHeader, payload []byte) error {
	payload, err := stripPadding(h.flags, payload)
	if err != nil {
		return newConnError(codeFrameSize, "bad HEADERS padding")
	}
	if h.flags.Has(FlagPriority) {
		if len(payload) < 5 {
			return newConnError(codeFrameSize, "truncated HEADERS priority")
		}
		payload = payload[5:]
	}

	st := c.findAlways(h.stream)
	st.openRemote(false)

	if st.msg == nil {
		st.msg = NewMessage()
	}

	c.headerBlock.Reset()
	c.headerBlock.Write(payload)
	c.pendingEndStream = h.flags.Has(FlagEndStream)

	if h.flags.Has(FlagEndHeaders) {
		return c.finishHeaderBlock(msgs, h.stream, st)
	}
	c.continueStream = h.stream
	return nil
}

func (c *Conn) onContinuation(msgs *[]pendingMsg, h frameHeader, payload []byte) error {
	st, ok := c.streams[h.stream]
	if !ok {
		return newConnError(codeProtocol, "CONTINUATION for unknown stream")
	}

	c.headerBlock.Write(payload)
	if !h.flags.Has(FlagEndHeaders) {
		return nil
	}

	c.continueStream = 0
	return c.finishHeaderBlock(msgs, h.stream, st)
}

func (c *Conn) finishHeaderBlock(msgs *[]pendingMsg, streamID uint32, st *stream) error {
	fields, err := c.decoder.Decode(c.headerBlock.Bytes())
	if err != nil {
		return newConnError(codeCompression, "HPACK decode failure")
	}
	for _, f := range fields {
		st.msg.AddHeader(f.ID, f.Name, f.Value)
	}

	if c.pendingEndStream {
		st.openRemote(true)
		st.maybeClose()
		*msgs = append(*msgs, pendingMsg{stream: streamID, msg: st.msg})
	}
	return nil
}

func (c *Conn) onData(out *charbuf.Buf, msgs *[]pendingMsg, h frameHeader, payload []byte) error {
	debit := int32(len(payload))
	body, err := stripPadding(h.flags, payload)
	if err != nil {
		return newConnError(codeFrameSize, "bad DATA padding")
	}

	if newIn := addWindow(c.connWindowIn, -debit); newIn < 0 {
		return newConnError(codeFlowControl, "connection flow window exceeded")
	} else if newIn < DefaultWindowSize/2 {
		inc := int32(DefaultWindowSize) - newIn
		addWindow(c.connWindowIn, inc)
		out.Append(appendWindowUpdate(nil, 0, uint32(inc)))
	}

	st, ok := c.streams[h.stream]
	if !ok || st.remoteState == StreamClosed || st.remoteState == StreamDeleted {
		out.Append(appendRstStream(nil, h.stream, codeStreamClose))
		return nil
	}

	st.msg.Body().Append(body)

	if h.flags.Has(FlagEndStream) {
		st.openRemote(true)
		st.maybeClose()
		*msgs = append(*msgs, pendingMsg{stream: h.stream, msg: st.msg})
	}
	return nil
}

func (c *Conn) onPriority(h frameHeader, payload []byte) error {
	if h.stream == 0 {
		return newConnError(codeProtocol, "PRIORITY on stream 0")
	}
	if len(payload) != 5 {
		return newConnError(codeFrameSize, "malformed PRIORITY")
	}
	// priority tree is not implemented; the frame is accepted and ignored.
	return nil
}

func (c *Conn) onRstStream(h frameHeader, payload []byte) error {
	if h.stream == 0 {
		return newConnError(codeProtocol, "RST_STREAM on stream 0")
	}
	if len(payload) != 4 {
		return newConnError(codeFrameSize, "malformed RST_STREAM")
	}
	if st, ok := c.streams[h.stream]; ok {
		st.reset()
		st.closedAt = timeNow()
	}
	return nil
}

func (c *Conn) onPing(out *charbuf.Buf, h frameHeader, payload []byte) error {
	if h.stream != 0 {
		return newConnError(codeProtocol, "PING on non-zero stream")
	}
	if len(payload) != 8 {
		return newConnError(codeFrameSize, "malformed PING")
	}
	if h.flags.Has(FlagAck) {
		return nil
	}
	b := appendFrameHeader(nil, 8, FramePing, FlagAck, 0)
	b = append(b, payload...)
	out.Append(b)
	return nil
}

func (c *Conn) onGoAway(h frameHeader, payload []byte) error {
	if len(payload) < 8 {
		return newConnError(codeFrameSize, "malformed GOAWAY")
	}
	c.peerGoAway = true
	c.peerLastStream = binary.BigEndian.Uint32(payload[:4]) & 0x7fffffff
	return nil
}

func (c *Conn) onWindowUpdate(out *charbuf.Buf, h frameHeader, payload []byte) error {
	if len(payload) != 4 {
		return newConnError(codeFrameSize, "malformed WINDOW_UPDATE")
	}
	inc := binary.BigEndian.Uint32(payload) & 0x7fffffff
	if inc == 0 {
		return newConnError(codeProtocol, "zero WINDOW_UPDATE increment")
	}

	if h.stream == 0 {
		addWindow(c.connWindowOut, int32(inc))
		c.flushPendingLocked(out)
		return nil
	}
	if st, ok := c.streams[h.stream]; ok {
		addWindow(st.window, int32(inc))
		c.flushPendingLocked(out)
	}
	return nil
}

// findAlways returns the stream for id, creating it idle if this is the
// first frame mentioning it, and sweeping any Deleted streams whose
// grace period has elapsed.
func (c *Conn) findAlways(id uint32) *stream {
	for sid, st := range c.streams {
		if st.localState == StreamClosed && st.remoteState == StreamClosed && timeNow().Sub(st.closedAt) > deletedGrace {
			delete(c.streams, sid)
		}
	}

	if st, ok := c.streams[id]; ok {
		return st
	}

	st := newStream(id, int32(c.remote.initialWindowSize))
	c.streams[id] = st
	if id > c.lastInputStream {
		c.lastInputStream = id
	}
	return st
}

// timeNow is a seam so tests can avoid depending on wall-clock timing
// of the Deleted grace window.
var timeNow = time.Now
