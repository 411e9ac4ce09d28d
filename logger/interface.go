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

// Package logger provides the structured logging surface shared by every
// component of this module: task queues, timers, sockets, the AppSocket
// demux and the HTTP/2 engine all log through a Logger rather than the
// standard library log package, so that fields like component, conn_id
// and stream_id are always attached consistently.
package logger

import (
	liblvl "github.com/nabbar/dimcore/logger/level"
)

// FuncLog returns the Logger a component should use. Components accept a
// FuncLog instead of a concrete Logger so that the logger can be swapped
// (e.g. during Merge / reconfiguration) without re-wiring every caller.
type FuncLog func() Logger

// Fields is a structured set of key/value pairs attached to a log entry.
type Fields map[string]interface{}

// Logger is the structured logging interface every component depends on.
// It is implemented by *logrusLogger, which wraps github.com/sirupsen/logrus.
type Logger interface {
	// SetLevel changes the minimum level that is emitted.
	SetLevel(lvl liblvl.Level)
	// Level returns the current minimum emitted level.
	Level() liblvl.Level

	// WithFields returns a derived Logger that always attaches the given
	// fields in addition to its own. The receiver is left unmodified.
	WithFields(f Fields) Logger

	// Entry logs a single structured message at the given level.
	Entry(lvl liblvl.Level, msg string, f Fields)

	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
	// Fatal logs at PanicLevel and then aborts the process. Per spec.md §7,
	// fatal conditions (OOM, panic in a task) bypass the shutdown
	// coordinator entirely.
	Fatal(msg string, f Fields)
}
