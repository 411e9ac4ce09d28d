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

import "encoding/binary"

// FrameType is the RFC 7540 §11.2 frame type registry.
type FrameType uint8

const (
	FrameData         FrameType = 0x0
	FrameHeaders      FrameType = 0x1
	FramePriority     FrameType = 0x2
	FrameRstStream    FrameType = 0x3
	FrameSettings     FrameType = 0x4
	FramePushPromise  FrameType = 0x5
	FramePing         FrameType = 0x6
	FrameGoAway       FrameType = 0x7
	FrameWindowUpdate FrameType = 0x8
	FrameContinuation FrameType = 0x9
)

func (t FrameType) String() string {
	switch t {
	case FrameData:
		return "DATA"
	case FrameHeaders:
		return "HEADERS"
	case FramePriority:
		return "PRIORITY"
	case FrameRstStream:
		return "RST_STREAM"
	case FrameSettings:
		return "SETTINGS"
	case FramePushPromise:
		return "PUSH_PROMISE"
	case FramePing:
		return "PING"
	case FrameGoAway:
		return "GOAWAY"
	case FrameWindowUpdate:
		return "WINDOW_UPDATE"
	case FrameContinuation:
		return "CONTINUATION"
	default:
		return "UNKNOWN"
	}
}

// FrameFlags is the per-frame 8-bit flag field. Only a subset is valid
// per frame type; callers must check against the type they parsed.
type FrameFlags uint8

const (
	FlagEndStream  FrameFlags = 0x1
	FlagAck        FrameFlags = 0x1 // SETTINGS and PING reuse bit 0 as ACK
	FlagEndHeaders FrameFlags = 0x4
	FlagPadded     FrameFlags = 0x8
	FlagPriority   FrameFlags = 0x20
)

func (f FrameFlags) Has(bit FrameFlags) bool { return f&bit != 0 }

const frameHeaderLen = 9

// frameHeader is the 9-byte prefix every HTTP/2 frame starts with:
// a 24-bit length, an 8-bit type, an 8-bit flags field, and a 31-bit
// stream id (the reserved high bit is always masked off on read).
type frameHeader struct {
	length int
	typ    FrameType
	flags  FrameFlags
	stream uint32
}

func parseFrameHeader(b []byte) frameHeader {
	length := int(b[0])<<16 | int(b[1])<<8 | int(b[2])
	return frameHeader{
		length: length,
		typ:    FrameType(b[3]),
		flags:  FrameFlags(b[4]),
		stream: binary.BigEndian.Uint32(b[5:9]) & 0x7fffffff,
	}
}

func appendFrameHeader(dst []byte, length int, typ FrameType, flags FrameFlags, stream uint32) []byte {
	dst = append(dst,
		byte(length>>16), byte(length>>8), byte(length),
		byte(typ),
		byte(flags),
	)
	var sid [4]byte
	binary.BigEndian.PutUint32(sid[:], stream&0x7fffffff)
	return append(dst, sid[:]...)
}

// stripPadding removes a PADDED frame's pad-length prefix byte and
// trailing pad bytes, returning the payload proper.
func stripPadding(flags FrameFlags, payload []byte) ([]byte, error) {
	if !flags.Has(FlagPadded) {
		return payload, nil
	}
	if len(payload) < 1 {
		return nil, errFrameSize
	}
	padLen := int(payload[0])
	payload = payload[1:]
	if padLen > len(payload) {
		return nil, errFrameSize
	}
	return payload[:len(payload)-padLen], nil
}
