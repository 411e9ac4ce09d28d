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

import "bytes"

// ConnectionPreface is the RFC 7540 §3.5 magic a client must send
// before its first SETTINGS frame, and a server must see before
// anything else on an accepted connection.
const ConnectionPreface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// LooksLikePreface reports whether b is a prefix of (or equal to) the
// connection preface, for use as an appsocket Matcher that demuxes a
// plaintext HTTP/2 connection ("h2c") from other protocols sharing the
// same listening endpoint.
func LooksLikePreface(b []byte) bool {
	n := len(b)
	if n > len(ConnectionPreface) {
		n = len(ConnectionPreface)
	}
	return bytes.Equal(b[:n], []byte(ConnectionPreface[:n]))
}
