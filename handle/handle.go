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

package handle

import "sync"

// Handle is an opaque reference to a slot in a Map[T]. The zero value is
// always empty and never resolves.
type Handle uint32

// Empty reports whether h is the zero handle.
func (h Handle) Empty() bool {
	return h == 0
}

type node[T any] struct {
	value T
	used  bool
	next  int // index (1-based) of the next free slot, 0 means end-of-list
}

// Map is a generic handle-indexed slot table with a free-list for reuse. It
// satisfies spec.md's invariant 7: a handle resolves to an object exactly
// between its Insert and Release.
type Map[T any] struct {
	mu        sync.RWMutex
	slots     []node[T]
	firstFree int // 1-based index, 0 means none
	numUsed   int
}

// NewMap returns an empty handle map.
func NewMap[T any]() *Map[T] {
	return &Map[T]{}
}

// Insert stores value in a free slot (reusing a released one if available)
// and returns the handle naming it.
func (m *Map[T]) Insert(value T) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.firstFree != 0 {
		idx := m.firstFree - 1
		m.firstFree = m.slots[idx].next
		m.slots[idx] = node[T]{value: value, used: true}
		m.numUsed++
		return Handle(idx + 1)
	}

	m.slots = append(m.slots, node[T]{value: value, used: true})
	m.numUsed++
	return Handle(len(m.slots))
}

// Find resolves h to its value. ok is false if h is empty, out of range, or
// has already been released.
func (m *Map[T]) Find(h Handle) (value T, ok bool) {
	if h.Empty() {
		return value, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := int(h) - 1
	if idx < 0 || idx >= len(m.slots) || !m.slots[idx].used {
		return value, false
	}

	return m.slots[idx].value, true
}

// Release frees the slot named by h and returns its value. ok is false if h
// was already empty/released.
func (m *Map[T]) Release(h Handle) (value T, ok bool) {
	if h.Empty() {
		return value, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := int(h) - 1
	if idx < 0 || idx >= len(m.slots) || !m.slots[idx].used {
		return value, false
	}

	value = m.slots[idx].value
	m.slots[idx] = node[T]{next: m.firstFree}
	m.firstFree = idx + 1
	m.numUsed--

	return value, true
}

// Replace overwrites the value stored at h without changing its lifetime.
// ok is false if h does not currently resolve.
func (m *Map[T]) Replace(h Handle, value T) (ok bool) {
	if h.Empty() {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := int(h) - 1
	if idx < 0 || idx >= len(m.slots) || !m.slots[idx].used {
		return false
	}

	m.slots[idx].value = value
	return true
}

// Len returns the number of currently-resolvable handles.
func (m *Map[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.numUsed
}

// Empty reports whether the map has no live handles.
func (m *Map[T]) Empty() bool {
	return m.Len() == 0
}

// Each invokes fn for every live (handle, value) pair in ascending handle
// order. fn returning false stops the iteration early.
func (m *Map[T]) Each(fn func(h Handle, value T) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.slots {
		if !m.slots[i].used {
			continue
		}
		if !fn(Handle(i+1), m.slots[i].value) {
			return
		}
	}
}
