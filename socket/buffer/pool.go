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

// Package buffer implements the socket layer's fixed-slice buffer pool:
// one region of contiguous memory is carved into equal-size slices doled
// out via a free-list, and regions are kept sorted across full/partial/
// empty lists so allocation prefers a partially-used region over an
// empty one. Go has no registered-I/O memory to pin, so Pool carries the
// same slice-size/region-size tuning and list discipline without the
// OS registration step.
package buffer

import "sync"

// SliceSize and RegionSize match the original's RIO buffer tuning: 4KB
// slices, 256 slices (1MB) per region.
const (
	SliceSize       = 4096
	RegionSize      = 256 * SliceSize
	slicesPerRegion = RegionSize / SliceSize
)

type state int

const (
	stateEmpty state = iota
	statePartial
	stateFull
)

type region struct {
	data      []byte
	firstFree int // 1-based index into slot; 0 means none free
	next      []int
	used      int
	st        state
}

func newRegion() *region {
	r := &region{
		data: make([]byte, RegionSize),
		next: make([]int, slicesPerRegion),
	}
	for i := 0; i < slicesPerRegion; i++ {
		if i == slicesPerRegion-1 {
			r.next[i] = 0
		} else {
			r.next[i] = i + 2 // 1-based pointer to the next slot
		}
	}
	r.firstFree = 1
	r.st = stateEmpty
	return r
}

func (r *region) alloc() (int, bool) {
	if r.firstFree == 0 {
		return 0, false
	}
	idx := r.firstFree - 1
	r.firstFree = r.next[idx]
	r.used++
	return idx, true
}

func (r *region) free(idx int) {
	r.next[idx] = r.firstFree
	r.firstFree = idx + 1
	r.used--
}

func (r *region) slice(idx int) []byte {
	off := idx * SliceSize
	return r.data[off : off+SliceSize : off+SliceSize]
}

func (r *region) classify() state {
	switch {
	case r.used == 0:
		return stateEmpty
	case r.used == slicesPerRegion:
		return stateFull
	default:
		return statePartial
	}
}

// Slice is one fixed-size buffer on loan from a Pool. Release returns it
// to the pool's free-list.
type Slice struct {
	pool   *Pool
	region *region
	idx    int
	Buf    []byte
}

// Release returns s to its pool. Using s.Buf after Release is undefined,
// matching the original's "slice belongs to whoever holds the handle"
// discipline.
func (s *Slice) Release() {
	s.pool.release(s)
}

// Pool hands out fixed-size Slices, growing by allocating additional
// regions as needed and keeping regions classified across full/partial/
// empty so allocation always prefers a partial region over an empty one
// (the original's "enabling O(1) allocation from partial before empty").
type Pool struct {
	mu       sync.Mutex
	full     []*region
	partial  []*region
	empty    []*region
	acquired int
}

// NewPool returns an empty Pool; its first Acquire call allocates the
// first region.
func NewPool() *Pool {
	return &Pool{}
}

// Acquire returns a zeroed Slice, allocating a new region if no existing
// region has a free slot.
func (p *Pool) Acquire() *Slice {
	p.mu.Lock()
	defer p.mu.Unlock()

	r := p.pickSource()
	idx, ok := r.alloc()
	if !ok {
		// Should not happen: pickSource only returns regions with room.
		panic("buffer: region reported free slot but alloc failed")
	}
	p.reclassify(r)

	b := r.slice(idx)
	for i := range b {
		b[i] = 0
	}
	p.acquired++
	return &Slice{pool: p, region: r, idx: idx, Buf: b}
}

func (p *Pool) pickSource() *region {
	if n := len(p.partial); n > 0 {
		return p.partial[n-1]
	}
	if n := len(p.empty); n > 0 {
		return p.empty[n-1]
	}
	r := newRegion()
	p.empty = append(p.empty, r)
	return r
}

func (p *Pool) release(s *Slice) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s.region.free(s.idx)
	p.reclassify(s.region)
	p.acquired--
}

// reclassify moves r between the full/partial/empty lists to match its
// current used count. Lists are small in practice (one entry per 1MB of
// outstanding sockets), so a linear remove is not a hot-path concern.
func (p *Pool) reclassify(r *region) {
	want := r.classify()
	if want == r.st {
		return
	}

	p.removeFrom(r)
	r.st = want
	switch want {
	case stateFull:
		p.full = append(p.full, r)
	case statePartial:
		p.partial = append(p.partial, r)
	case stateEmpty:
		p.empty = append(p.empty, r)
	}
}

func (p *Pool) removeFrom(r *region) {
	var list *[]*region
	switch r.st {
	case stateFull:
		list = &p.full
	case statePartial:
		list = &p.partial
	case stateEmpty:
		list = &p.empty
	}
	for i, cand := range *list {
		if cand == r {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

// Regions returns the number of regions currently allocated (for tests
// and diagnostics).
func (p *Pool) Regions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.full) + len(p.partial) + len(p.empty)
}

// Acquired returns the number of slices currently on loan.
func (p *Pool) Acquired() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquired
}
