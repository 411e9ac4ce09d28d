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
	liberr "github.com/nabbar/dimcore/errors"
)

// Connection-level errors are reported as the RFC 7540 §7 error codes
// already reserved in errors.modules.go (the Http2* block); http2 adds
// no codes of its own, it just picks which one applies. The codeXxx
// constants feed newConnError's GOAWAY code; the errXxx values are the
// same codes wrapped as a plain error, for parser helpers (stripPadding,
// decodeSettings, peerSettings.apply) whose signature only needs error.
const (
	codeProtocol    = liberr.Http2ProtocolError
	codeFrameSize   = liberr.Http2FrameSizeError
	codeFlowControl = liberr.Http2FlowControlError
	codeCompression = liberr.Http2CompressionError
	codeStreamClose = liberr.Http2StreamClosed
)

var (
	errProtocol    = codeProtocol.Error()
	errFrameSize   = codeFrameSize.Error()
	errFlowControl = codeFlowControl.Error()
	errCompression = codeCompression.Error()
	errStreamClose = codeStreamClose.Error()
)

// connError pairs the GOAWAY code to send with the message to log; it
// is the only error type onFrame and its callees return.
type connError struct {
	code liberr.CodeError
	msg  string
}

func (e *connError) Error() string { return e.msg }

func newConnError(code liberr.CodeError, msg string) *connError {
	return &connError{code: code, msg: msg}
}

// streamError carries an RST_STREAM code instead of tearing down the
// whole connection.
type streamError struct {
	stream uint32
	code   liberr.CodeError
	msg    string
}

func (e *streamError) Error() string { return e.msg }

func newStreamError(stream uint32, code liberr.CodeError, msg string) *streamError {
	return &streamError{stream: stream, code: code, msg: msg}
}

// Local API-misuse codes: never put on the wire, just returned to the
// caller of Request/Reply/PushPromise. Offset away from the RFC 7540
// §7 block above so the two never collide.
const (
	errWrongRole liberr.CodeError = iota + liberr.MinPkgHttp2 + 50
	errUnknownStreamID
	errIncompleteMessage
)

var (
	errWrongRoleErr         = errWrongRole.Error()
	errUnknownStreamIDErr   = errUnknownStreamID.Error()
	errIncompleteMessageErr = errIncompleteMessage.Error()
)
