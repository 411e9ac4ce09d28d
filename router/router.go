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
	"sync"

	"golang.org/x/net/http/httpguts"

	"github.com/nabbar/dimcore/charbuf"
	liberr "github.com/nabbar/dimcore/errors"
	"github.com/nabbar/dimcore/http2"
)

// Router is an http2.Dispatcher: it matches a completed request to a
// registered route by path and method, mints a request id, and keeps
// the (conn, stream) pair needed to reply later - the same split the
// original keeps between its path table and its s_requests map, just
// folded into one struct since nothing else needs either half alone.
type Router struct {
	mu       sync.Mutex
	routes   []route
	requests map[uint64]reqInfo
	nextID   uint64
	notFound Handler
}

type reqInfo struct {
	conn   *http2.Conn
	stream uint32
}

// New returns an empty Router.
func New() *Router {
	return &Router{requests: make(map[uint64]reqInfo)}
}

// Add registers a handler for path. recurse makes the route also match
// any path below it (Request.Tail carries the remainder), mirroring
// the original's recurse flag on httpRouteAdd.
func (rt *Router) Add(path string, methods Method, recurse bool, h Handler) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.routes = append(rt.routes, route{path: path, methods: methods, recurse: recurse, handler: h})
}

// SetNotFound installs the handler invoked when no route matches; a
// nil notFound (the default) resets the stream with REFUSED_STREAM.
func (rt *Router) SetNotFound(h Handler) {
	rt.mu.Lock()
	rt.notFound = h
	rt.mu.Unlock()
}

// Dispatch implements http2.Dispatcher.
func (rt *Router) Dispatch(c *http2.Conn, streamID uint32, msg *http2.Message) {
	if !validHeaders(msg) {
		rt.abort(c, streamID, liberr.Http2ProtocolError)
		return
	}

	m, ok := ParseMethod(msg.Method())
	if !ok {
		rt.abort(c, streamID, liberr.Http2RefusedStream)
		return
	}

	rt.mu.Lock()
	rte := find(rt.routes, msg.Path(), m)
	h := rt.notFound
	tail := ""
	if rte != nil {
		h = rte.handler
		tail = tailParam(rte, msg.Path())
	}

	rt.nextID++
	id := rt.nextID
	rt.requests[id] = reqInfo{conn: c, stream: streamID}
	rt.mu.Unlock()

	if h == nil {
		rt.abort(c, streamID, liberr.Http2RefusedStream)
		rt.forget(id)
		return
	}

	h(&Request{
		ID:     id,
		Method: msg.Method(),
		Path:   msg.Path(),
		Tail:   tail,
		Msg:    msg,
		router: rt,
		conn:   c,
		stream: streamID,
	})
}

func (rt *Router) abort(c *http2.Conn, streamID uint32, code liberr.CodeError) {
	out := charbuf.New()
	_ = c.ResetStream(out, streamID, code)
	c.Flush(out)
}

func (rt *Router) forget(id uint64) {
	rt.mu.Lock()
	delete(rt.requests, id)
	rt.mu.Unlock()
}

// validHeaders rejects a request whose header names or values aren't
// valid per RFC 7230's field syntax, the same check net/http applies
// to HTTP/1.1 trailers and headers via this same package.
func validHeaders(msg *http2.Message) bool {
	for _, h := range msg.Headers() {
		if !httpguts.ValidHeaderFieldName(h.Name) {
			return false
		}
		if !httpguts.ValidHeaderFieldValue(h.Value) {
			return false
		}
	}
	return true
}
