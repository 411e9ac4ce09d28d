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

package hpack

// entryOverhead is the RFC 7541 §4.1 fixed per-entry accounting overhead
// added on top of the name and value octet lengths.
const entryOverhead = 32

// dynamicTable is a RFC 7541 §2.3.2 HPACK dynamic table: a FIFO of
// name/value pairs with newest-first indexing (wire index 62 is the most
// recently inserted entry) and size-bounded eviction.
//
// entries[0] is the newest insertion; entries grow at the front and evict
// from the back, mirroring the original's ring-buffer-by-deque layout
// without needing its fixed capacity.
type dynamicTable struct {
	entries []headerField
	size    int // sum of len(name)+len(value)+entryOverhead over entries
	maxSize int // negotiated via SETTINGS_HEADER_TABLE_SIZE
	curMax  int // current cap, settable by a size-update instruction <= maxSize
}

func newDynamicTable(maxSize int) *dynamicTable {
	return &dynamicTable{maxSize: maxSize, curMax: maxSize}
}

// insert adds a new entry at the front, evicting oldest entries until the
// table fits within curMax. An entry larger than curMax by itself empties
// the table entirely, per RFC 7541 §4.4.
func (d *dynamicTable) insert(name, value string) {
	cost := len(name) + len(value) + entryOverhead
	d.entries = append([]headerField{{name, value}}, d.entries...)
	d.size += cost
	d.evict()
}

func (d *dynamicTable) evict() {
	for d.size > d.curMax && len(d.entries) > 0 {
		last := d.entries[len(d.entries)-1]
		d.entries = d.entries[:len(d.entries)-1]
		d.size -= len(last.name) + len(last.value) + entryOverhead
	}
}

// setSize applies a dynamic-table-size-update instruction (RFC 7541 §6.3).
// n must not exceed the negotiated maxSize; callers enforce that bound
// before calling setSize so it can return ErrTableSizeTooLarge themselves.
func (d *dynamicTable) setSize(n int) {
	d.curMax = n
	d.evict()
}

// at resolves a dynamic-table index (1-based within the dynamic space,
// where wire index 62 maps to at(1)).
func (d *dynamicTable) at(i int) (headerField, bool) {
	if i < 1 || i > len(d.entries) {
		return headerField{}, false
	}
	return d.entries[i-1], true
}

func (d *dynamicTable) len() int {
	return len(d.entries)
}
