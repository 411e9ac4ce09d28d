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

// Package httphdr interns the well-known HTTP/2 header names (the
// pseudo-headers plus the common response/request header set) into a
// small integer, so the HPACK decode path can switch on an Hdr instead
// of repeatedly comparing header-name strings.
package httphdr

// Hdr identifies a well-known header name.
type Hdr int

const (
	Invalid Hdr = iota
	Authority
	Method
	Path
	Scheme
	Status
	Accept
	AcceptCharset
	AcceptEncoding
	AcceptLanguage
	AcceptRanges
	AccessControlAllowOrigin
	Age
	Allow
	Authorization
	CacheControl
	Connection
	ContentDisposition
	ContentEncoding
	ContentLanguage
	ContentLength
	ContentLocation
	ContentRange
	ContentType
	Cookie
	Date
	ETag
	Expect
	Expires
	ForwardedFor
	From
	Host
	IfMatch
	IfModifiedSince
	IfNoneMatch
	IfRange
	IfUnmodifiedSince
	LastModified
	Link
	Location
	MaxForwards
	ProxyAuthenticate
	ProxyAuthorization
	Range
	Referer
	Refresh
	RetryAfter
	Server
	SetCookie
	StrictTransportSecurity
	TransferEncoding
	UserAgent
	Vary
	Via
	WwwAuthenticate

	numHdr
)

// names holds the wire spelling for each Hdr, indexed by its value. The
// pseudo-headers spell ":scheme", not ":schema" — see DESIGN.md for the
// rationale on preferring the RFC 7540 spelling.
var names = [numHdr]string{
	Invalid:                  "",
	Authority:                ":authority",
	Method:                   ":method",
	Path:                     ":path",
	Scheme:                   ":scheme",
	Status:                   ":status",
	Accept:                   "accept",
	AcceptCharset:            "accept-charset",
	AcceptEncoding:           "accept-encoding",
	AcceptLanguage:           "accept-language",
	AcceptRanges:             "accept-ranges",
	AccessControlAllowOrigin: "access-control-allow-origin",
	Age:                      "age",
	Allow:                    "allow",
	Authorization:            "authorization",
	CacheControl:             "cache-control",
	Connection:               "connection",
	ContentDisposition:       "content-disposition",
	ContentEncoding:          "content-encoding",
	ContentLanguage:          "content-language",
	ContentLength:            "content-length",
	ContentLocation:          "content-location",
	ContentRange:             "content-range",
	ContentType:              "content-type",
	Cookie:                   "cookie",
	Date:                     "date",
	ETag:                     "etag",
	Expect:                   "expect",
	Expires:                  "expires",
	ForwardedFor:             "x-forwarded-for",
	From:                     "from",
	Host:                     "host",
	IfMatch:                  "if-match",
	IfModifiedSince:          "if-modified-since",
	IfNoneMatch:              "if-none-match",
	IfRange:                  "if-range",
	IfUnmodifiedSince:        "if-unmodified-since",
	LastModified:             "last-modified",
	Link:                     "link",
	Location:                 "location",
	MaxForwards:              "max-forwards",
	ProxyAuthenticate:        "proxy-authenticate",
	ProxyAuthorization:       "proxy-authorization",
	Range:                    "range",
	Referer:                  "referer",
	Refresh:                  "refresh",
	RetryAfter:               "retry-after",
	Server:                   "server",
	SetCookie:                "set-cookie",
	StrictTransportSecurity:  "strict-transport-security",
	TransferEncoding:         "transfer-encoding",
	UserAgent:                "user-agent",
	Vary:                     "vary",
	Via:                      "via",
	WwwAuthenticate:          "www-authenticate",
}

var byName map[string]Hdr

func init() {
	byName = make(map[string]Hdr, numHdr)
	for h := Invalid + 1; h < numHdr; h++ {
		byName[names[h]] = h
	}
}

// String returns the wire spelling for h, or "" if h is Invalid or out of
// range.
func (h Hdr) String() string {
	if h <= Invalid || h >= numHdr {
		return ""
	}
	return names[h]
}

// Pseudo reports whether h is one of the ":"-prefixed HTTP/2 pseudo-headers.
func (h Hdr) Pseudo() bool {
	return h >= Authority && h <= Status
}

// Lookup interns name into its Hdr token. ok is false for header names
// outside the well-known set; the caller should keep the literal name in
// that case instead of discarding the header.
func Lookup(name string) (h Hdr, ok bool) {
	h, ok = byName[name]
	return h, ok
}
