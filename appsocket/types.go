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

// Package appsocket demultiplexes a freshly accepted byte connection onto
// one of a fixed set of protocol families (TLS, HTTP/2, Byte) by buffering
// the first bytes read and asking each family's matcher whether it
// recognizes them, then hands the connection to that family's factory as
// a regular socket.Notifier for the rest of its life.
package appsocket

import "github.com/nabbar/dimcore/socket"

// Family identifies a protocol family a connection can be demultiplexed
// into. Order matters: it is also match-priority order for ties.
type Family int

const (
	FamilyTLS Family = iota
	FamilyHTTP2
	FamilyByte

	numFamilies
)

func (f Family) String() string {
	switch f {
	case FamilyTLS:
		return "tls"
	case FamilyHTTP2:
		return "http2"
	case FamilyByte:
		return "byte"
	default:
		return "unknown"
	}
}

// families lists every Family in match-priority order.
func families() []Family {
	return []Family{FamilyTLS, FamilyHTTP2, FamilyByte}
}

// MatchType is a matcher's verdict for one family given the bytes seen
// so far.
type MatchType int

const (
	// Unknown means not enough data has been seen yet to decide.
	Unknown MatchType = iota
	// Preferred means the bytes are explicitly recognized for this family.
	Preferred
	// Supported means the family would accept the bytes in a generic way
	// (e.g. as a raw byte stream) but did not explicitly recognize them.
	Supported
	// Unsupported means the bytes can never match this family.
	Unsupported
)

func (m MatchType) String() string {
	switch m {
	case Unknown:
		return "unknown"
	case Preferred:
		return "preferred"
	case Supported:
		return "supported"
	case Unsupported:
		return "unsupported"
	default:
		return "invalid"
	}
}

// Matcher decides whether the bytes seen so far on a connection belong
// to fam.
type Matcher interface {
	OnMatch(fam Family, data []byte) MatchType
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(fam Family, data []byte) MatchType

func (f MatcherFunc) OnMatch(fam Family, data []byte) MatchType { return f(fam, data) }

// Factory produces the socket.Notifier that will own a connection once
// its family has been matched.
type Factory interface {
	Create() socket.Notifier
}

// FactoryFunc adapts a plain function to Factory.
type FactoryFunc func() socket.Notifier

func (f FactoryFunc) Create() socket.Notifier { return f() }
