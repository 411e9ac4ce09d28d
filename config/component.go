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
	"bytes"
	"encoding/json"
)

func marshalIndented(v interface{}, indent string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil
	}
	return buf.Bytes()
}

// Type identifies this section in a Registry.
func (Socket) Type() string { return "socket" }

// DefaultConfig renders DefaultSocket as indented JSON.
func (Socket) DefaultConfig(indent string) []byte { return marshalIndented(DefaultSocket(), indent) }

// Type identifies this section in a Registry.
func (HTTP2) Type() string { return "http2" }

// DefaultConfig renders DefaultHTTP2 as indented JSON.
func (HTTP2) DefaultConfig(indent string) []byte { return marshalIndented(DefaultHTTP2(), indent) }

// Type identifies this section in a Registry.
func (Timers) Type() string { return "timers" }

// DefaultConfig renders DefaultTimers as indented JSON.
func (Timers) DefaultConfig(indent string) []byte { return marshalIndented(DefaultTimers(), indent) }

// Type identifies this section in a Registry.
func (Queues) Type() string { return "queues" }

// DefaultConfig renders DefaultQueues as indented JSON.
func (Queues) DefaultConfig(indent string) []byte { return marshalIndented(DefaultQueues(), indent) }

// Components returns s's four sections as Registry Components, in the
// order Register should be called (order does not matter for Validate,
// which sorts by Type before running).
func (s Settings) Components() []Component {
	return []Component{s.Socket, s.HTTP2, s.Timers, s.Queues}
}
