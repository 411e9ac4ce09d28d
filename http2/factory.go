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

import "github.com/nabbar/dimcore/socket"

// NewConnFactory returns the socket.Notifier constructor an
// appsocket.Registry listener needs for FamilyHTTP2: every accepted
// connection matched to HTTP/2 gets its own server-role Conn, registered
// in the process-wide handle table so it can be looked up (and closed)
// by Handle elsewhere, e.g. from an admin endpoint or graceful shutdown.
// The returned func's signature matches appsocket.FactoryFunc without
// this package importing appsocket, keeping the dependency one-way.
func NewConnFactory(dispatcher Dispatcher) func() socket.Notifier {
	return func() socket.Notifier {
		c := NewConn(false, dispatcher)
		Register(c)
		return c
	}
}
