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

// Decode parses one complete header block (the concatenated payload of a
// HEADERS frame plus any CONTINUATION frames) into its header fields,
// applying indexed-header, literal, and dynamic-table-size-update
// instructions against t's dynamic table as it goes.
//
// A decode error always means the connection's HPACK state is no longer
// trustworthy; RFC 7541 §2.2 requires the caller to treat it as a
// connection error, never to resume decoding later blocks.
func (t *Table) Decode(block []byte) ([]Field, error) {
	var out []Field
	sawHeaderField := false

	for len(block) > 0 {
		b := block[0]
		switch {
		case b&0x80 != 0: // 1xxxxxxx: indexed header field
			idx, n, err := decodeInteger(b, 7, block[1:])
			if err != nil {
				return nil, err
			}
			block = block[1+n:]
			if idx == 0 {
				return nil, ErrBadIndex.Error()
			}
			hf, ok := t.lookupIndex(int(idx))
			if !ok {
				return nil, ErrBadIndex.Error()
			}
			out = append(out, field(hf.name, hf.value))
			sawHeaderField = true

		case b&0xc0 == 0x40: // 01xxxxxx: literal with incremental indexing
			f, n, err := t.decodeLiteral(block, 6)
			if err != nil {
				return nil, err
			}
			block = block[n:]
			t.dyn.insert(f.Name, f.Value)
			out = append(out, f)
			sawHeaderField = true

		case b&0xf0 == 0x00: // 0000xxxx: literal without indexing
			f, n, err := t.decodeLiteral(block, 4)
			if err != nil {
				return nil, err
			}
			block = block[n:]
			out = append(out, f)
			sawHeaderField = true

		case b&0xf0 == 0x10: // 0001xxxx: literal never indexed
			f, n, err := t.decodeLiteral(block, 4)
			if err != nil {
				return nil, err
			}
			f.Flags |= FlagNeverIndex
			block = block[n:]
			out = append(out, f)
			sawHeaderField = true

		case b&0xe0 == 0x20: // 001xxxxx: dynamic table size update
			if sawHeaderField {
				return nil, ErrDynamicTableSizeUpdate.Error()
			}
			n64, n, err := decodeInteger(b, 5, block[1:])
			if err != nil {
				return nil, err
			}
			block = block[1+n:]
			if int(n64) > t.dyn.maxSize {
				return nil, ErrTableSizeTooLarge.Error()
			}
			t.dyn.setSize(int(n64))

		default:
			return nil, ErrBadIndex.Error()
		}
	}

	return out, nil
}

// decodeLiteral decodes a literal header field representation (with
// incremental indexing, without indexing, or never indexed all share this
// shape) whose name-index prefix is prefixBits wide.
func (t *Table) decodeLiteral(block []byte, prefixBits int) (Field, int, error) {
	nameIdx, n, err := decodeInteger(block[0], prefixBits, block[1:])
	if err != nil {
		return Field{}, 0, err
	}
	pos := 1 + n

	var name string
	if nameIdx == 0 {
		s, sn, serr := decodeString(block[pos:])
		if serr != nil {
			return Field{}, 0, serr
		}
		name = s
		pos += sn
	} else {
		hf, ok := t.lookupIndex(int(nameIdx))
		if !ok {
			return Field{}, 0, ErrBadIndex.Error()
		}
		name = hf.name
	}

	value, vn, verr := decodeString(block[pos:])
	if verr != nil {
		return Field{}, 0, verr
	}
	pos += vn

	return field(name, value), pos, nil
}

// lookupIndex resolves a wire index: 1..61 is the static table, 62 and
// above is the dynamic table (62 is the most recently inserted entry).
func (t *Table) lookupIndex(idx int) (headerField, bool) {
	if idx >= 1 && idx <= staticTableSize {
		return staticTable[idx], true
	}
	return t.dyn.at(idx - staticTableSize)
}
