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

package config

import (
	liberr "github.com/nabbar/dimcore/errors"
)

// Error codes for the config package.
const (
	// ErrInvalidSocket indicates Socket.ListenAddr does not parse as
	// host:port, or a timeout field is not strictly positive.
	ErrInvalidSocket liberr.CodeError = iota + liberr.MinPkgConfig

	// ErrInvalidHTTP2 indicates an HTTP2 field is outside RFC 7540
	// §6.5.2's legal range.
	ErrInvalidHTTP2

	// ErrInvalidTimers indicates a Timers field is not strictly positive.
	ErrInvalidTimers

	// ErrInvalidQueues indicates Queues.ComputeThreads is below 1.
	ErrInvalidQueues

	// ErrComponentNotFound indicates Registry.Get was called with an
	// unregistered component type.
	ErrComponentNotFound

	// ErrComponentDuplicate indicates Registry.Register was called twice
	// with the same component type.
	ErrComponentDuplicate
)
