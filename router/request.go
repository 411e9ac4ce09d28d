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

package router

import (
	"github.com/nabbar/dimcore/charbuf"
	liberr "github.com/nabbar/dimcore/errors"
	"github.com/nabbar/dimcore/http2"
)

// Request is what a Handler receives: the decoded message plus enough
// of the (connection, stream) correlation to reply, without exposing
// http2's frame-level API to route handlers. It mirrors the original's
// onHttpRequest(reqId, params, msg) callback, minus the global lookup -
// Reply/ResetStream close over the id themselves.
type Request struct {
	ID     uint64
	Method string
	Path   string
	Tail   string
	Msg    *http2.Message

	router *Router
	conn   *http2.Conn
	stream uint32
}

// Reply sends msg as the final response for this request and forgets
// its correlation entry. For a streamed response, call ReplyMore first
// and finish with Data(..., true) through the Router instead.
func (r *Request) Reply(msg *http2.Message) error {
	out := charbuf.New()
	if err := r.conn.Reply(out, r.stream, msg, false); err != nil {
		return err
	}
	r.conn.Flush(out)
	r.router.forget(r.ID)
	return nil
}

// ReplyMore sends msg as the response's headers without closing the
// stream, so the handler can stream the body with subsequent Data
// calls through the Router.
func (r *Request) ReplyMore(msg *http2.Message) error {
	out := charbuf.New()
	if err := r.conn.Reply(out, r.stream, msg, true); err != nil {
		return err
	}
	r.conn.Flush(out)
	return nil
}

// Data streams part of the response body started by ReplyMore. endStream
// closes the response and forgets the request's correlation entry.
func (r *Request) Data(p []byte, endStream bool) error {
	out := charbuf.New()
	if err := r.conn.Data(out, r.stream, p, endStream); err != nil {
		return err
	}
	r.conn.Flush(out)
	if endStream {
		r.router.forget(r.ID)
	}
	return nil
}

// ResetStream abandons the request instead of replying.
func (r *Request) ResetStream(code liberr.CodeError) error {
	out := charbuf.New()
	if err := r.conn.ResetStream(out, r.stream, code); err != nil {
		return err
	}
	r.conn.Flush(out)
	r.router.forget(r.ID)
	return nil
}
