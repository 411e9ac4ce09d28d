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

// Package intset tracks which server-push (even) HTTP/2 stream ids have
// been allocated, as a sorted list of half-open [low, high) ranges, so
// "next free id" never has to scan the whole stream table.
package intset

import "sort"

// Range is a half-open [Low, High) span of allocated values.
type Range struct {
	Low  uint32
	High uint32
}

// Set is a sorted, coalesced collection of disjoint ranges.
type Set struct {
	ranges []Range
}

// New returns an empty set.
func New() *Set {
	return &Set{}
}

// Insert marks val as allocated. It reports whether val was newly added
// (false if it was already a member).
func (s *Set) Insert(val uint32) bool {
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].High > val })

	if i < len(s.ranges) && s.ranges[i].Low <= val {
		return false
	}

	left := i > 0 && s.ranges[i-1].High == val
	right := i < len(s.ranges) && s.ranges[i].Low == val+1

	switch {
	case left && right:
		s.ranges[i-1].High = s.ranges[i].High
		s.ranges = append(s.ranges[:i], s.ranges[i+1:]...)
	case left:
		s.ranges[i-1].High = val + 1
	case right:
		s.ranges[i].Low = val
	default:
		s.ranges = append(s.ranges, Range{})
		copy(s.ranges[i+1:], s.ranges[i:])
		s.ranges[i] = Range{Low: val, High: val + 1}
	}

	return true
}

// Contains reports whether val has been allocated.
func (s *Set) Contains(val uint32) bool {
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].High > val })
	return i < len(s.ranges) && s.ranges[i].Low <= val
}

// Erase releases val, making it allocatable again.
func (s *Set) Erase(val uint32) bool {
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].High > val })
	if i >= len(s.ranges) || s.ranges[i].Low > val {
		return false
	}

	r := s.ranges[i]
	switch {
	case r.Low == val && r.High == val+1:
		s.ranges = append(s.ranges[:i], s.ranges[i+1:]...)
	case r.Low == val:
		s.ranges[i].Low = val + 1
	case r.High == val+1:
		s.ranges[i].High = val
	default:
		s.ranges = append(s.ranges, Range{})
		copy(s.ranges[i+1:], s.ranges[i:])
		s.ranges[i] = Range{Low: r.Low, High: val}
		s.ranges[i+1] = Range{Low: val + 1, High: r.High}
	}

	return true
}

// Empty reports whether the set has no allocated values.
func (s *Set) Empty() bool {
	return len(s.ranges) == 0
}

// Count returns the number of allocated values.
func (s *Set) Count() int {
	n := 0
	for _, r := range s.ranges {
		n += int(r.High - r.Low)
	}
	return n
}

// Ranges returns the set's disjoint ranges in ascending order. The
// returned slice must not be mutated by the caller.
func (s *Set) Ranges() []Range {
	return s.ranges
}

// FirstFree returns the lowest value >= start, congruent to start modulo
// step, that is not a member of the set. step must be >= 1; pass 2 to
// allocate only even (server-push) or only odd (client) stream ids.
func (s *Set) FirstFree(start uint32, step uint32) uint32 {
	if step == 0 {
		step = 1
	}

	v := start
	for s.Contains(v) {
		v += step
	}
	return v
}
