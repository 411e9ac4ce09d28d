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

import (
	liberr "github.com/nabbar/dimcore/errors"
)

// Error codes for the hpack package. A decode error is always a session
// error per RFC 7541 §2.2: the caller must tear down the whole connection,
// since the dynamic table's state is no longer trustworthy.
const (
	// ErrBadIndex indicates an indexed-header or literal-with-indexed-name
	// instruction referenced an index outside the static+dynamic space.
	ErrBadIndex liberr.CodeError = iota + liberr.MinPkgHpack
	// ErrIntegerOverflow indicates a §5.1 integer's continuation bytes
	// exceeded the 32-bit range this codec supports.
	ErrIntegerOverflow
	// ErrTruncated indicates the input ended before an instruction could
	// be fully decoded.
	ErrTruncated
	// ErrHuffmanPadding indicates a Huffman string's trailing bits were
	// not all 1 (the §5.2 required EOS padding), or decoded fully to EOS.
	ErrHuffmanPadding
	// ErrDynamicTableSizeUpdate indicates a dynamic-table-size-update
	// instruction appeared after a header field in the same block, which
	// RFC 7541 §6.3 forbids.
	ErrDynamicTableSizeUpdate
	// ErrTableSizeTooLarge indicates a dynamic-table-size-update asked for
	// a capacity above the bound negotiated via SETTINGS_HEADER_TABLE_SIZE.
	ErrTableSizeTooLarge
)
