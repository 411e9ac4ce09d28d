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

package appsocket

import "bytes"

// http2Preface is the 24-byte HTTP/2 connection preface (RFC 7540 §3.5).
const http2Preface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// MaxMatchBuffer caps how many bytes the demux accumulates before it
// stops waiting for a Preferred match and accepts a Supported one
// instead.
const MaxMatchBuffer = 16 * 1024

// defaultMatcher is consulted for any family with no registered Matcher.
// It recognizes the HTTP/2 connection preface and the TLS record-layer
// handshake prefix explicitly, and otherwise falls back to treating
// everything as a generically Supported byte stream.
func defaultMatcher(fam Family, data []byte) MatchType {
	switch fam {
	case FamilyHTTP2:
		return matchPrefix(data, []byte(http2Preface))
	case FamilyTLS:
		return matchTLSRecord(data)
	case FamilyByte:
		return Supported
	default:
		return Unsupported
	}
}

// matchPrefix reports Preferred once data is at least as long as want and
// equal to it over that length, Unknown while data is a true prefix of
// want, and Unsupported once data diverges from want.
func matchPrefix(data, want []byte) MatchType {
	n := len(data)
	if n > len(want) {
		n = len(want)
	}
	if !bytes.Equal(data[:n], want[:n]) {
		return Unsupported
	}
	if len(data) >= len(want) {
		return Preferred
	}
	return Unknown
}

// matchTLSRecord recognizes a TLS record-layer handshake header: content
// type 22 (handshake) followed by a major version byte of 3.
func matchTLSRecord(data []byte) MatchType {
	if len(data) >= 1 && data[0] != 0x16 {
		return Unsupported
	}
	if len(data) >= 2 && data[1] != 0x03 {
		return Unsupported
	}
	if len(data) < 2 {
		return Unknown
	}
	return Preferred
}

// runMatch evaluates every family's matcher (custom if registered,
// defaultMatcher otherwise) against data and returns:
//   - the winning family and true, if a Preferred match was found, or a
//     Supported match was found and data has reached MaxMatchBuffer;
//   - false otherwise (more data is needed, or every family is
//     Unsupported and nothing will ever match).
//
// The second case (nothing can ever match) is reported via giveUp,
// distinguishing "wait for more data" from "stop waiting, no family will
// ever match".
func runMatch(reg *Registry, data []byte) (fam Family, matched bool, giveUp bool) {
	var supported *Family
	unsupportedAll := true

	for _, f := range families() {
		m := reg.matcherFor(f)
		var verdict MatchType
		if m != nil {
			verdict = m.OnMatch(f, data)
		} else {
			verdict = defaultMatcher(f, data)
		}

		if verdict != Unsupported {
			unsupportedAll = false
		}
		if verdict == Preferred {
			return f, true, false
		}
		if verdict == Supported && supported == nil {
			fCopy := f
			supported = &fCopy
		}
	}

	if unsupportedAll {
		return 0, false, true
	}
	if supported != nil && len(data) >= MaxMatchBuffer {
		return *supported, true, false
	}
	return 0, false, false
}
