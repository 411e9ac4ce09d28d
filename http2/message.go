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
	"io"

	"github.com/nabbar/dimcore/charbuf"
	"github.com/nabbar/dimcore/http2/internal/arena"
	"github.com/nabbar/dimcore/httphdr"
	"github.com/nabbar/dimcore/ioutils/bufferReadCloser"
)

// msgFlag mirrors HttpMsg's original kFlagHas* bits: which pseudo
// headers have already been set, for checkPseudoHeaders. A second
// addHeader for the same pseudo header replaces the earlier value.
type msgFlag int

const (
	flagHasStatus msgFlag = 1 << iota
	flagHasMethod
	flagHasScheme
	flagHasAuthority
	flagHasPath
	flagHasHeader
)

// Header is one decoded (or to-be-encoded) header field, carved from
// Message's arena so it outlives the HPACK block it came from.
type Header struct {
	ID    httphdr.Hdr
	Name  string
	Value string
}

// Message is either an HTTP/2 request or a response. Header names and
// values added via AddHeader are copied into the message's own arena;
// AddHeaderRef trusts the caller's strings to outlive the message
// (constants, or strings already carved from this same arena).
type Message struct {
	arena *arena.Arena
	body  charbuf.Buf

	flags   msgFlag
	headers []Header

	method    string
	scheme    string
	authority string
	path      string
	status    int
}

// NewMessage returns an empty request/response message with its own
// header arena.
func NewMessage() *Message {
	return &Message{arena: arena.New()}
}

// Body returns the message's payload buffer.
func (m *Message) Body() *charbuf.Buf { return &m.body }

// BodyReader snapshots the message's payload into a standalone
// io.ReadCloser, for handlers that want to hand the body to code
// written against the standard library instead of charbuf.Buf.
// Closing it resets the snapshot, not the message's own body buffer.
func (m *Message) BodyReader() io.ReadCloser {
	return bufferReadCloser.New(bytes.NewBuffer(m.body.Bytes()))
}

// Headers returns the message's regular header fields in arrival order.
// Pseudo-headers are not in this list; Method, Scheme, Authority, Path
// and Status return them.
func (m *Message) Headers() []Header { return m.headers }

// Method, Scheme, Authority and Path return the decoded pseudo-headers
// for a request message; Status returns the decoded :status for a
// response message. Zero values mean the pseudo-header was never set.
func (m *Message) Method() string    { return m.method }
func (m *Message) Scheme() string    { return m.scheme }
func (m *Message) Authority() string { return m.authority }
func (m *Message) Path() string      { return m.path }
func (m *Message) Status() int       { return m.status }

// SetStatus sets the :status pseudo-header for a response message.
func (m *Message) SetStatus(code int) {
	m.flags |= flagHasStatus
	m.status = code
}

// SetMethod, SetScheme, SetAuthority and SetPath set a request
// message's pseudo-headers.
func (m *Message) SetMethod(v string)    { m.flags |= flagHasMethod; m.method = v }
func (m *Message) SetScheme(v string)    { m.flags |= flagHasScheme; m.scheme = v }
func (m *Message) SetAuthority(v string) { m.flags |= flagHasAuthority; m.authority = v }
func (m *Message) SetPath(v string)      { m.flags |= flagHasPath; m.path = v }

// AddHeader copies name and value into the message's arena and appends
// them to the header list, routing well-known pseudo-header ids to
// their dedicated field instead of the regular header list, matching
// the original's addHeader(HttpHdr, value) overload.
func (m *Message) AddHeader(id httphdr.Hdr, name, value string) {
	m.AddHeaderRef(id, m.arena.String(name), m.arena.String(value))
}

// AddHeaderRef is AddHeader without the arena copy: name and value must
// already be valid for the message's lifetime.
func (m *Message) AddHeaderRef(id httphdr.Hdr, name, value string) {
	switch id {
	case httphdr.Status:
		m.SetStatus(atoiSafe(value))
		return
	case httphdr.Method:
		m.flags |= flagHasMethod
		m.method = value
		return
	case httphdr.Scheme:
		m.flags |= flagHasScheme
		m.scheme = value
		return
	case httphdr.Authority:
		m.flags |= flagHasAuthority
		m.authority = value
		return
	case httphdr.Path:
		m.flags |= flagHasPath
		m.path = value
		return
	}

	m.flags |= flagHasHeader
	m.headers = append(m.headers, Header{ID: id, Name: name, Value: value})
}

func atoiSafe(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return n
		}
		n = n*10 + int(s[i]-'0')
	}
	return n
}

// checkPseudoHeaders mirrors HttpRequest/HttpResponse::checkPseudoHeaders:
// a request needs method+scheme+path (authority is optional when Host
// is present as a regular header, but this engine does not special
// case that), a response needs status.
func (m *Message) checkPseudoHeaders(response bool) bool {
	if response {
		return m.flags&flagHasStatus != 0
	}
	const want = flagHasMethod | flagHasScheme | flagHasPath
	return m.flags&want == want
}
