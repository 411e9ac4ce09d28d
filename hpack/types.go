/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package hpack implements the HTTP/2 header compression format, RFC 7541:
// the static and dynamic tables, integer and string literal encoding, the
// canonical Huffman code, and the header-block encoder/decoder that the
// http2 package drives per connection and per direction.
package hpack

import (
	"github.com/nabbar/dimcore/charbuf"
	"github.com/nabbar/dimcore/httphdr"
)

// DefaultTableSize is the RFC 7541 §4.2 initial SETTINGS_HEADER_TABLE_SIZE
// value both peers assume before any SETTINGS frame changes it.
const DefaultTableSize = 4096

// FlagNeverIndex marks a Field decoded from a "literal never indexed"
// instruction: an intermediary re-encoding this field downstream must
// preserve that instruction rather than adding it to a dynamic table.
const FlagNeverIndex = 1 << 0

// Field is one decoded header field: id is the interned well-known token
// when name matches one (httphdr.Invalid otherwise, in which case name
// carries the literal wire spelling).
type Field struct {
	ID    httphdr.Hdr
	Name  string
	Value string
	Flags int
}

// Table is a per-connection, per-direction HPACK dynamic table plus the
// encode/decode entry points bound to it. RFC 7541 requires one dynamic
// table per direction (encoder and decoder do not share instance), so
// callers keep two Tables per connection: one for the stream of header
// blocks it encodes, one for the blocks it decodes.
type Table struct {
	dyn *dynamicTable
}

// NewTable creates a Table with the given initial max size, as negotiated
// by SETTINGS_HEADER_TABLE_SIZE (DefaultTableSize before any negotiation).
func NewTable(maxSize int) *Table {
	return &Table{dyn: newDynamicTable(maxSize)}
}

// SetMaxSize updates the ceiling a peer's size-update instruction may not
// exceed, e.g. after sending or receiving a new SETTINGS_HEADER_TABLE_SIZE.
func (t *Table) SetMaxSize(n int) {
	t.dyn.maxSize = n
	if t.dyn.curMax > n {
		t.dyn.setSize(n)
	}
}

func resolve(name string) (httphdr.Hdr, bool) {
	return httphdr.Lookup(name)
}

func field(name, value string) Field {
	id, _ := resolve(name)
	return Field{ID: id, Name: name, Value: value}
}

// charbufWriter is satisfied by *charbuf.Buf; kept as an interface so
// tests can supply a lighter sink without constructing a real Buf.
type charbufWriter interface {
	Append(p []byte)
}

var _ charbufWriter = (*charbuf.Buf)(nil)
