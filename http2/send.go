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
	"strconv"

	"github.com/nabbar/dimcore/charbuf"
	liberr "github.com/nabbar/dimcore/errors"
	"github.com/nabbar/dimcore/httphdr"
)

// encodeHeaderBlock HPACK-encodes msg's pseudo and regular headers into
// a single contiguous block, pseudo-headers first per RFC 7540
// §8.1.2.1's encoding recommendation.
func (c *Conn) encodeHeaderBlock(msg *Message, response bool) *charbuf.Buf {
	block := charbuf.New()

	if response {
		c.encoder.Encode(block, httphdr.Status.String(), strconv.Itoa(msg.Status()), false)
	} else {
		c.encoder.Encode(block, httphdr.Method.String(), msg.Method(), false)
		c.encoder.Encode(block, httphdr.Scheme.String(), msg.Scheme(), false)
		if msg.Authority() != "" {
			c.encoder.Encode(block, httphdr.Authority.String(), msg.Authority(), false)
		}
		c.encoder.Encode(block, httphdr.Path.String(), msg.Path(), false)
	}

	for _, h := range msg.Headers() {
		name := h.Name
		if h.ID != httphdr.Invalid {
			if n := h.ID.String(); n != "" {
				name = n
			}
		}
		c.encoder.Encode(block, name, h.Value, false)
	}

	return block
}

// writeHeaderFrames splits block across a HEADERS frame and as many
// CONTINUATION frames as c.remote's max frame size requires, setting
// END_HEADERS only on the last one and END_STREAM on the first (the
// original always attaches it to the HEADERS frame) when endStream.
func (c *Conn) writeHeaderFrames(out *charbuf.Buf, streamID uint32, block []byte, endStream bool) {
	maxFrame := int(c.remote.maxFrameSize)
	if maxFrame <= 0 {
		maxFrame = defaultMaxFrameSize
	}

	flags := FrameFlags(0)
	if endStream {
		flags |= FlagEndStream
	}

	chunk := block
	rest := []byte(nil)
	if len(chunk) > maxFrame {
		rest = chunk[maxFrame:]
		chunk = chunk[:maxFrame]
	} else {
		flags |= FlagEndHeaders
	}

	out.Append(appendFrameHeader(nil, len(chunk), FrameHeaders, flags, streamID))
	out.Append(chunk)

	for len(rest) > 0 {
		n := len(rest)
		if n > maxFrame {
			n = maxFrame
		}
		cflags := FrameFlags(0)
		if n == len(rest) {
			cflags |= FlagEndHeaders
		}
		out.Append(appendFrameHeader(nil, n, FrameContinuation, cflags, streamID))
		out.Append(rest[:n])
		rest = rest[n:]
	}
}

// Request opens a new client-initiated stream and writes msg's headers
// to out. more indicates the caller will follow with Data calls instead
// of closing the stream immediately. It returns the new stream id.
func (c *Conn) Request(out *charbuf.Buf, msg *Message, more bool) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.outgoing {
		return 0, errWrongRoleErr
	}
	if !msg.checkPseudoHeaders(false) {
		return 0, errIncompleteMessageErr
	}

	id := c.nextOutputID
	c.nextOutputID += 2
	if id > c.lastOutputID {
		c.lastOutputID = id
	}

	st := newStream(id, int32(c.remote.initialWindowSize))
	st.openLocal(!more)
	st.maybeClose()
	c.streams[id] = st

	block := c.encodeHeaderBlock(msg, false)
	c.writeHeaderFrames(out, id, block.Bytes(), !more)
	return id, nil
}

// Reply writes msg as the response on a stream opened by the peer's
// request. more indicates more Data calls will follow before the
// stream half-closes locally.
func (c *Conn) Reply(out *charbuf.Buf, streamID uint32, msg *Message, more bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.streams[streamID]
	if !ok {
		return errUnknownStreamIDErr
	}
	if !msg.checkPseudoHeaders(true) {
		return errIncompleteMessageErr
	}

	st.openLocal(!more)
	st.maybeClose()
	block := c.encodeHeaderBlock(msg, true)
	c.writeHeaderFrames(out, streamID, block.Bytes(), !more)
	return nil
}

// PushPromise reserves the next even server-push stream id associated
// with assocStreamID and writes a PUSH_PROMISE frame announcing msg (a
// request-shaped message describing what is being pushed), returning
// the reserved id so the caller can Reply on it directly. This engine
// only generates pushes; it never consumes one (see Non-goals).
func (c *Conn) PushPromise(out *charbuf.Buf, assocStreamID uint32, msg *Message) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.outgoing {
		return 0, errWrongRoleErr
	}
	if _, ok := c.streams[assocStreamID]; !ok {
		return 0, errUnknownStreamIDErr
	}
	if !msg.checkPseudoHeaders(false) {
		return 0, errIncompleteMessageErr
	}

	id := c.pushIDs.FirstFree(c.nextOutputID, 2)
	c.pushIDs.Insert(id)
	if id > c.lastOutputID {
		c.lastOutputID = id
	}

	st := newStream(id, int32(c.remote.initialWindowSize))
	st.localState = StreamReserved
	c.streams[id] = st

	block := c.encodeHeaderBlock(msg, false)

	maxFrame := int(c.remote.maxFrameSize)
	if maxFrame <= 0 {
		maxFrame = defaultMaxFrameSize
	}
	var promised [4]byte
	promised[0] = byte(id >> 24 & 0x7f)
	promised[1] = byte(id >> 16)
	promised[2] = byte(id >> 8)
	promised[3] = byte(id)

	b := block.Bytes()
	flags := FrameFlags(0)
	first := b
	var rest []byte
	if len(b)+4 > maxFrame {
		split := maxFrame - 4
		if split < 0 {
			split = 0
		}
		first = b[:split]
		rest = b[split:]
	} else {
		flags |= FlagEndHeaders
	}

	out.Append(appendFrameHeader(nil, len(first)+4, FramePushPromise, flags, assocStreamID))
	out.Append(promised[:])
	out.Append(first)

	for len(rest) > 0 {
		n := len(rest)
		if n > maxFrame {
			n = maxFrame
		}
		cflags := FrameFlags(0)
		if n == len(rest) {
			cflags |= FlagEndHeaders
		}
		out.Append(appendFrameHeader(nil, n, FrameContinuation, cflags, assocStreamID))
		out.Append(rest[:n])
		rest = rest[n:]
	}

	return id, nil
}

// Data queues p on streamID's unsent buffer and flushes as much of it
// as the connection and stream flow-control windows currently allow;
// any remainder is flushed later by FlushPending as WINDOW_UPDATE
// frames arrive (see writer.go).
func (c *Conn) Data(out *charbuf.Buf, streamID uint32, p []byte, endStream bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.streams[streamID]
	if !ok {
		return errUnknownStreamIDErr
	}

	st.unsent.Append(p)
	if endStream {
		st.unsentFinal = true
		st.openLocal(true)
	}
	c.flushStreamLocked(out, st)
	return nil
}

// ResetStream abandons streamID locally and tells the peer why via
// RST_STREAM.
func (c *Conn) ResetStream(out *charbuf.Buf, streamID uint32, code liberr.CodeError) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.streams[streamID]
	if !ok {
		return newStreamError(streamID, code, "unknown stream")
	}
	st.reset()
	st.closedAt = timeNow()
	out.Append(appendRstStream(nil, streamID, code))
	return nil
}
