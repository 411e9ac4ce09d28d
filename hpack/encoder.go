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

// Encode appends one header field to out using the smallest representation
// available: an indexed header field if the exact (name, value) pair is
// already in the static or dynamic table, otherwise a literal with an
// indexed name when only the name matches, otherwise a literal with a new
// name. Unless never is set, the literal is emitted with incremental
// indexing and added to t's dynamic table so later fields with the same
// name or value can reference it.
func (t *Table) Encode(out charbufWriter, name, value string, never bool) {
	if idx, ok := t.fullIndex(name, value); ok {
		out.Append(appendInteger(nil, 7, 0x80, uint64(idx)))
		return
	}

	nameIdx, hasName := t.nameIndex(name)

	if never {
		out.Append(encodeLiteral(nameIdx, hasName, name, value, 4, 0x10))
		return
	}

	out.Append(encodeLiteral(nameIdx, hasName, name, value, 6, 0x40))
	t.dyn.insert(name, value)
}

// EncodeWithoutIndexing is like Encode but never adds the field to the
// dynamic table, for fields the caller knows are one-off (e.g. a unique
// per-request path).
func (t *Table) EncodeWithoutIndexing(out charbufWriter, name, value string) {
	if idx, ok := t.fullIndex(name, value); ok {
		out.Append(appendInteger(nil, 7, 0x80, uint64(idx)))
		return
	}
	nameIdx, hasName := t.nameIndex(name)
	out.Append(encodeLiteral(nameIdx, hasName, name, value, 4, 0x00))
}

// EncodeTableSizeUpdate emits a dynamic-table-size-update instruction; it
// must be the first instruction(s) emitted in a header block, before any
// header field, matching the decode side's rule.
func (t *Table) EncodeTableSizeUpdate(out charbufWriter, n int) {
	out.Append(appendInteger(nil, 5, 0x20, uint64(n)))
	t.dyn.setSize(n)
}

func encodeLiteral(nameIdx int, hasName bool, name, value string, prefixBits int, top byte) []byte {
	var dst []byte
	if hasName {
		dst = appendInteger(dst, prefixBits, top, uint64(nameIdx))
	} else {
		dst = appendInteger(dst, prefixBits, top, 0)
		dst = appendString(dst, name)
	}
	dst = appendString(dst, value)
	return dst
}

// fullIndex looks for an exact (name, value) match, dynamic table first
// since those entries are cheaper to reference and more likely to be the
// field just seen again.
func (t *Table) fullIndex(name, value string) (int, bool) {
	for i, e := range t.dyn.entries {
		if e.name == name && e.value == value {
			return staticTableSize + i + 1, true
		}
	}
	if idx, ok := staticFullIndex[headerField{name, value}]; ok {
		return idx, true
	}
	return 0, false
}

// nameIndex looks for any entry (static or dynamic) carrying name, for a
// literal-with-indexed-name representation.
func (t *Table) nameIndex(name string) (int, bool) {
	for i, e := range t.dyn.entries {
		if e.name == name {
			return staticTableSize + i + 1, true
		}
	}
	if idx, ok := staticNameIndex[name]; ok {
		return idx, true
	}
	return 0, false
}
