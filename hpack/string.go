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

// appendString appends s as a §5.2 string literal. It always tries
// Huffman first and falls back to raw octets only when the Huffman form
// is not shorter than the string; there is no minimum length.
func appendString(dst []byte, s string) []byte {
	hlen := huffmanEncodedLen(s)
	if hlen < len(s) {
		dst = appendInteger(dst, 7, 0x80, uint64(hlen))
		return huffmanAppend(dst, s)
	}
	dst = appendInteger(dst, 7, 0x00, uint64(len(s)))
	return append(dst, s...)
}

// decodeString decodes a §5.2 string-literal field starting at src[0] (the
// length-prefix byte, high bit = Huffman flag). It returns the decoded
// string and the number of bytes consumed from src.
func decodeString(src []byte) (s string, consumed int, err error) {
	if len(src) == 0 {
		return "", 0, ErrTruncated.Error()
	}

	huff := src[0]&0x80 != 0
	length, n, derr := decodeInteger(src[0], 7, src[1:])
	if derr != nil {
		return "", 0, derr
	}
	consumed = 1 + n

	if uint64(len(src)-consumed) < length {
		return "", 0, ErrTruncated.Error()
	}
	raw := src[consumed : uint64(consumed)+length]
	consumed += int(length)

	if !huff {
		return string(raw), consumed, nil
	}

	s, err = huffmanDecode(raw)
	if err != nil {
		return "", 0, err
	}
	return s, consumed, nil
}
