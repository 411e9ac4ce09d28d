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

// maxIntegerValue bounds decoded integers to keep a hostile continuation
// sequence from spinning forever; RFC 7541 §5.1 leaves the limit to the
// implementation.
const maxIntegerValue = 1<<32 - 1

// appendInteger encodes i into dst using the N-bit prefix encoding of RFC
// 7541 §5.1. prefixBits is the number of bits available in the first byte
// (1..8); top holds any flag bits already set in that byte's high bits.
func appendInteger(dst []byte, prefixBits int, top byte, i uint64) []byte {
	max := uint64(1<<uint(prefixBits)) - 1
	if i < max {
		return append(dst, top|byte(i))
	}

	dst = append(dst, top|byte(max))
	i -= max
	for i >= 128 {
		dst = append(dst, byte(i%128)+128)
		i /= 128
	}
	return append(dst, byte(i))
}

// decodeInteger decodes an N-bit-prefix integer from src, where prefixBits
// is the number of bits used by the first byte (callers pass the raw
// first byte; the bits above the prefix are masked off here). It returns the decoded value and
// the number of bytes consumed from src starting after the first byte.
func decodeInteger(firstByte byte, prefixBits int, src []byte) (value uint64, consumed int, err error) {
	max := uint64(1<<uint(prefixBits)) - 1
	value = uint64(firstByte) & max
	if value < max {
		return value, 0, nil
	}

	var shift uint
	for i := 0; i < len(src); i++ {
		b := src[i]
		value += uint64(b&0x7f) << shift
		if value > maxIntegerValue {
			return 0, 0, ErrIntegerOverflow.Error()
		}
		shift += 7
		if b&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return 0, 0, ErrTruncated.Error()
}
