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

import (
	libctx "github.com/nabbar/dimcore/context"
)

// listenerKey identifies one (endpoint, family) factory registration. Only
// one factory may be registered per key; the original's "type" string
// that disambiguated multiple factories at the same (family, endpoint) has
// no caller in this module and is dropped (see DESIGN.md).
type listenerKey struct {
	endpoint string
	fam      Family
}

// Registry holds the process-wide matcher and factory tables that
// Listen consults for every accepted connection on a registered
// endpoint.
type Registry struct {
	matchers  libctx.MapManage[Family]
	listeners libctx.MapManage[listenerKey]
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		matchers:  libctx.NewConfig[Family](nil),
		listeners: libctx.NewConfig[listenerKey](nil),
	}
}

// AddMatch registers (or replaces) the matcher consulted for fam. A
// family with no registered matcher falls back to defaultMatcher.
func (r *Registry) AddMatch(fam Family, notify Matcher) {
	r.matchers.Store(fam, notify)
}

// RemoveMatch clears the matcher registered for fam, reverting it to
// defaultMatcher.
func (r *Registry) RemoveMatch(fam Family) {
	r.matchers.Delete(fam)
}

func (r *Registry) matcherFor(fam Family) Matcher {
	v, ok := r.matchers.Load(fam)
	if !ok {
		return nil
	}
	m, _ := v.(Matcher)
	return m
}

// AddListener registers the factory that owns connections matched to
// fam on endpoint.
func (r *Registry) AddListener(endpoint string, fam Family, factory Factory) {
	r.listeners.Store(listenerKey{endpoint: endpoint, fam: fam}, factory)
}

// RemoveListener undoes AddListener.
func (r *Registry) RemoveListener(endpoint string, fam Family) {
	r.listeners.Delete(listenerKey{endpoint: endpoint, fam: fam})
}

func (r *Registry) factoryFor(endpoint string, fam Family) Factory {
	v, ok := r.listeners.Load(listenerKey{endpoint: endpoint, fam: fam})
	if !ok {
		return nil
	}
	f, _ := v.(Factory)
	return f
}
