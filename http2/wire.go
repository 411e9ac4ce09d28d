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
	"encoding/binary"

	liberr "github.com/nabbar/dimcore/errors"

	"github.com/nabbar/dimcore/charbuf"
)

// writeLocalSettings appends this connection's advertised SETTINGS
// frame. This engine runs entirely on RFC 7540 defaults, so the frame
// carries no entries; sending it (rather than skipping the handshake
// step) is what the peer's connection startup is waiting on. c.mu must
// be held by the caller.
func (c *Conn) writeLocalSettings(out *charbuf.Buf) {
	out.Append(appendFrameHeader(nil, 0, FrameSettings, 0, 0))
	addWindow(c.unackedSettings, 1)
}

// appendGoAway serializes a GOAWAY frame closing the connection at
// lastStream with the RFC 7540 §7 wire code for code.
func appendGoAway(out *charbuf.Buf, lastStream uint32, code liberr.CodeError) {
	payload := make([]byte, 8)
	binary.BigEndian.PutUint32(payload[0:4], lastStream&0x7fffffff)
	binary.BigEndian.PutUint32(payload[4:8], code.Http2WireCode())

	b := appendFrameHeader(nil, len(payload), FrameGoAway, 0, 0)
	b = append(b, payload...)
	out.Append(b)
}

// appendRstStream serializes a RST_STREAM frame for stream.
func appendRstStream(dst []byte, stream uint32, code liberr.CodeError) []byte {
	dst = appendFrameHeader(dst, 4, FrameRstStream, 0, stream)
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], code.Http2WireCode())
	return append(dst, buf[:]...)
}

// appendWindowUpdate serializes a WINDOW_UPDATE frame crediting stream
// (0 for the connection window) by inc.
func appendWindowUpdate(dst []byte, stream uint32, inc uint32) []byte {
	dst = appendFrameHeader(dst, 4, FrameWindowUpdate, 0, stream)
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], inc&0x7fffffff)
	return append(dst, buf[:]...)
}
