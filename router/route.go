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

package router

import "strings"

// Handler answers one request. Params holds any path segments the
// route captured (empty unless the route registered with recurse, in
// which case Params["tail"] is the remainder of the path past the
// route's prefix, mirroring the original's recurse semantics).
type Handler func(req *Request)

// route is one registered (path, methods) pair. The table is scanned
// linearly and the longest matching path wins, the same design as the
// original's s_paths vector - route tables in this kind of server are
// small and rarely on a hot enough path to need a trie.
type route struct {
	path    string
	methods Method
	recurse bool
	handler Handler
}

func (r *route) matches(path string, m Method) bool {
	if r.methods&m == 0 {
		return false
	}
	if !r.recurse {
		return path == r.path
	}
	if path == r.path {
		return true
	}
	return strings.HasPrefix(path, r.path) &&
		(strings.HasSuffix(r.path, "/") || path[len(r.path)] == '/')
}

// find returns the longest-path route matching path and m, or nil.
func find(routes []route, path string, m Method) *route {
	var best *route
	for i := range routes {
		r := &routes[i]
		if !r.matches(path, m) {
			continue
		}
		if best == nil || len(r.path) > len(best.path) {
			best = r
		}
	}
	return best
}

func tailParam(r *route, path string) string {
	if !r.recurse || path == r.path {
		return ""
	}
	return strings.TrimPrefix(path[len(r.path):], "/")
}
