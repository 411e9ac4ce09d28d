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

// Package charbuf provides a geometrically-growing byte buffer used for
// outgoing HTTP/2 frame serialization and held-back flow-control data,
// where the growth policy must be predictable and inspectable rather
// than left to bytes.Buffer's unspecified strategy.
package charbuf

// minReserve is the smallest capacity a non-empty Buf ever reserves.
const minReserve = 64

// Buf is a growable byte buffer that doubles its capacity on overflow,
// the same reserve/resize discipline as the original CharBuf.
type Buf struct {
	data []byte
}

// New returns an empty buffer.
func New() *Buf {
	return &Buf{}
}

// NewSize returns an empty buffer pre-reserved to hold at least n bytes.
func NewSize(n int) *Buf {
	b := &Buf{}
	b.Reserve(n)
	return b
}

// Reserve grows the backing array, if needed, so at least n bytes can be
// appended without a further allocation. It never shrinks the buffer.
func (b *Buf) Reserve(n int) {
	if cap(b.data) >= n {
		return
	}

	want := cap(b.data)
	if want < minReserve {
		want = minReserve
	}
	for want < n {
		want *= 2
	}

	grown := make([]byte, len(b.data), want)
	copy(grown, b.data)
	b.data = grown
}

// Resize sets the buffer's length to n, zero-filling any newly exposed
// bytes, growing the backing array first if necessary.
func (b *Buf) Resize(n int) {
	if n <= len(b.data) {
		b.data = b.data[:n]
		return
	}

	b.Reserve(n)
	old := len(b.data)
	b.data = b.data[:n]
	for i := old; i < n; i++ {
		b.data[i] = 0
	}
}

// Append adds p to the end of the buffer, growing as needed.
func (b *Buf) Append(p []byte) {
	b.Reserve(len(b.data) + len(p))
	b.data = append(b.data, p...)
}

// AppendString adds s to the end of the buffer, growing as needed.
func (b *Buf) AppendString(s string) {
	b.Reserve(len(b.data) + len(s))
	b.data = append(b.data, s...)
}

// PushBack appends a single byte.
func (b *Buf) PushBack(c byte) {
	b.Reserve(len(b.data) + 1)
	b.data = append(b.data, c)
}

// Bytes returns the buffer's contents. The slice is only valid until the
// next mutating call.
func (b *Buf) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes currently held.
func (b *Buf) Len() int {
	return len(b.data)
}

// Cap returns the buffer's current backing capacity.
func (b *Buf) Cap() int {
	return cap(b.data)
}

// Empty reports whether the buffer holds no bytes.
func (b *Buf) Empty() bool {
	return len(b.data) == 0
}

// Clear empties the buffer without releasing its backing array.
func (b *Buf) Clear() {
	b.data = b.data[:0]
}

// Erase removes count bytes starting at pos, shifting the remainder down.
func (b *Buf) Erase(pos, count int) {
	if pos < 0 || pos > len(b.data) {
		return
	}
	end := pos + count
	if end > len(b.data) {
		end = len(b.data)
	}
	b.data = append(b.data[:pos], b.data[end:]...)
}

// Drain removes the first n bytes, shifting the remainder down. Used to
// discard frame bytes already flushed to the wire.
func (b *Buf) Drain(n int) {
	b.Erase(0, n)
}
