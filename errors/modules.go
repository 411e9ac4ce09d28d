/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

// Every package in this module reserves a contiguous block of CodeError
// values so that a code alone identifies which subsystem raised it, the
// same way the teacher's MinPkg* constants let a bare error code identify
// its owning package without a lookup table.
const (
	MinPkgHandle     = 100
	MinPkgTask       = 200
	MinPkgTimerWheel = 300
	MinPkgShutdown   = 400
	MinPkgSocket     = 500
	MinPkgAppSocket  = 600
	MinPkgHpack      = 700
	MinPkgHttp2      = 800
	MinPkgRouter     = 900
	MinPkgConfig     = 1000

	MinAvailable = 1100
)

// Http2ErrorCode is the RFC 7540 §7 error-code block, reusing the existing
// CodeError/Error machinery (stack capture, hierarchy, IsCode) so a single
// value can be logged, compared with errors.Is/IsCode, and serialized onto
// the wire as a GOAWAY or RST_STREAM error code without a second mapping
// table.
const (
	Http2NoError CodeError = MinPkgHttp2 + iota
	Http2ProtocolError
	Http2InternalError
	Http2FlowControlError
	Http2SettingsTimeout
	Http2StreamClosed
	Http2FrameSizeError
	Http2RefusedStream
	Http2Cancel
	Http2CompressionError
	Http2ConnectError
	Http2EnhanceYourCalm
	Http2InadequateSecurity
	Http2Http11Required
)

// Http2WireCode returns the RFC 7540 §7 32-bit wire value for a Http2*
// CodeError. Codes outside the Http2* block return Http2InternalError's
// wire value (0x2), matching the spec's "internal error" fallback.
func (c CodeError) Http2WireCode() uint32 {
	switch c {
	case Http2NoError:
		return 0x0
	case Http2ProtocolError:
		return 0x1
	case Http2InternalError:
		return 0x2
	case Http2FlowControlError:
		return 0x3
	case Http2SettingsTimeout:
		return 0x4
	case Http2StreamClosed:
		return 0x5
	case Http2FrameSizeError:
		return 0x6
	case Http2RefusedStream:
		return 0x7
	case Http2Cancel:
		return 0x8
	case Http2CompressionError:
		return 0x9
	case Http2ConnectError:
		return 0xa
	case Http2EnhanceYourCalm:
		return 0xb
	case Http2InadequateSecurity:
		return 0xc
	case Http2Http11Required:
		return 0xd
	default:
		return 0x2
	}
}
