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

// Package router matches completed HTTP/2 requests to a registered
// handler by path, mints a request id for each, and holds the
// (connection, stream) pair needed to send the matching reply - the
// same split of responsibilities as the original's route table and
// s_requests correlation map.
package router

// Method is a bitmask of request methods a route accepts, so one route
// registration can cover several verbs without repeating the path.
type Method uint16

const (
	MethodGet Method = 1 << iota
	MethodHead
	MethodPost
	MethodPut
	MethodDelete
	MethodOptions
	MethodPatch
	MethodConnect
	MethodTrace

	MethodAll = MethodGet | MethodHead | MethodPost | MethodPut |
		MethodDelete | MethodOptions | MethodPatch | MethodConnect | MethodTrace
)

var methodByName = map[string]Method{
	"GET":     MethodGet,
	"HEAD":    MethodHead,
	"POST":    MethodPost,
	"PUT":     MethodPut,
	"DELETE":  MethodDelete,
	"OPTIONS": MethodOptions,
	"PATCH":   MethodPatch,
	"CONNECT": MethodConnect,
	"TRACE":   MethodTrace,
}

// ParseMethod maps an HTTP request method's wire spelling to its Method
// bit. ok is false for a method outside the known set.
func ParseMethod(name string) (m Method, ok bool) {
	m, ok = methodByName[name]
	return m, ok
}
