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
	"sort"
	"sync"

	liberr "github.com/nabbar/dimcore/errors"
)

// Component is a narrowed version of the teacher's config.Component: a
// named settings section that can render its own default JSON and
// validate itself, without the lifecycle hooks (Start/Stop/Reload,
// RegisterFlag, Dependencies) that belonged to the teacher's AWS/DB/LDAP
// component managers this module has no equivalent of.
type Component interface {
	// Type returns the component's registry key (e.g. "socket", "http2").
	Type() string

	// DefaultConfig returns the component's default settings as indented
	// JSON, matching the teacher's DefaultConfig(indent) signature.
	DefaultConfig(indent string) []byte

	// Validate returns a non-nil error if the component's current
	// settings are not usable.
	Validate() liberr.Error
}

// Registry is a minimal ComponentList: a name-keyed set of Components
// that can all be validated together, matching the teacher's
// cptList.go key/value registration idiom at the scale this module
// needs (no start/stop/reload orchestration, no cobra/viper wiring).
type Registry struct {
	mu  sync.Mutex
	cpt map[string]Component
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{cpt: make(map[string]Component)}
}

// Register adds a Component under its own Type(). It is an error to
// register the same type twice.
func (r *Registry) Register(c Component) liberr.Error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cpt[c.Type()]; ok {
		return ErrComponentDuplicate.Error(nil)
	}
	r.cpt[c.Type()] = c
	return nil
}

// Get returns the Component registered under typ.
func (r *Registry) Get(typ string) (Component, liberr.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cpt[typ]
	if !ok {
		return nil, ErrComponentNotFound.Error(nil)
	}
	return c, nil
}

// Types returns every registered component type, sorted for stable
// output.
func (r *Registry) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.cpt))
	for t := range r.cpt {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Validate calls Validate on every registered Component and returns the
// first error encountered, checking in Types() order for determinism.
func (r *Registry) Validate() liberr.Error {
	for _, t := range r.Types() {
		c, e := r.Get(t)
		if e != nil {
			return e
		}
		if e := c.Validate(); e != nil {
			return e
		}
	}
	return nil
}

// DefaultConfig renders every registered component's default settings
// into one JSON object keyed by component type.
func (r *Registry) DefaultConfig(indent string) []byte {
	raw := make(map[string]json.RawMessage)
	for _, t := range r.Types() {
		c, e := r.Get(t)
		if e != nil {
			continue
		}
		raw[t] = json.RawMessage(c.DefaultConfig(indent))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", indent)
	if err := enc.Encode(raw); err != nil {
		return nil
	}
	return buf.Bytes()
}
