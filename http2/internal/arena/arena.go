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

// Package arena is a bump allocator that backs one HTTP/2 message: every
// header name and value HPACK decodes into the message is copied into a
// chunk here instead of being held onto the connection's read buffer, so
// the read buffer can be reused for the next frame while the message is
// still alive.
package arena

const (
	initChunk = 256
	maxChunk  = 4096
)

// Arena owns a growing list of byte chunks. Slices returned by Bytes are
// backed by those chunks; strings returned by String are ordinary Go
// strings and stay valid whether or not the Arena is still reachable.
type Arena struct {
	chunks [][]byte
	cur    []byte
}

// New returns an empty Arena.
func New() *Arena {
	return &Arena{}
}

// String copies s into the arena and returns string() of that copy, a
// separate string, so the caller's original buffer can be reused or
// discarded.
func (a *Arena) String(s string) string {
	if s == "" {
		return ""
	}

	if len(a.cur) < len(s) {
		a.grow(len(s))
	}

	n := copy(a.cur, s)
	b := a.cur[:n]
	a.cur = a.cur[n:]
	return string(b)
}

// Bytes copies p into the arena and returns a slice backed by the copy.
func (a *Arena) Bytes(p []byte) []byte {
	if len(p) == 0 {
		return nil
	}

	if len(a.cur) < len(p) {
		a.grow(len(p))
	}

	n := copy(a.cur, p)
	b := a.cur[:n:n]
	a.cur = a.cur[n:]
	return b
}

func (a *Arena) grow(need int) {
	size := initChunk
	if len(a.chunks) > 0 {
		size = cap(a.chunks[len(a.chunks)-1]) * 2
	}
	if size > maxChunk {
		size = maxChunk
	}
	if size < need {
		size = need
	}

	chunk := make([]byte, size)
	a.chunks = append(a.chunks, chunk)
	a.cur = chunk
}
