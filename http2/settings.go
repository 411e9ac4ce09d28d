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

package http2

import "encoding/binary"

// SettingID is the RFC 7540 §11.3 settings registry.
type SettingID uint16

const (
	SettingHeaderTableSize      SettingID = 0x1
	SettingEnablePush           SettingID = 0x2
	SettingMaxConcurrentStreams SettingID = 0x3
	SettingInitialWindowSize    SettingID = 0x4
	SettingMaxFrameSize         SettingID = 0x5
	SettingMaxHeaderListSize    SettingID = 0x6
)

// DefaultWindowSize is RFC 7540 §6.9.2's default initial flow-control
// window, for both the connection and every new stream.
const DefaultWindowSize = 65535

const (
	defaultMaxFrameSize    = 16384
	defaultHeaderTableSize = 4096
)

// settingsEntry is one (id, value) pair as it appears on the wire; six
// bytes each, back to back, no padding.
type settingsEntry struct {
	id    SettingID
	value uint32
}

func decodeSettings(payload []byte) ([]settingsEntry, error) {
	if len(payload)%6 != 0 {
		return nil, errFrameSize
	}

	entries := make([]settingsEntry, 0, len(payload)/6)
	for i := 0; i+6 <= len(payload); i += 6 {
		entries = append(entries, settingsEntry{
			id:    SettingID(binary.BigEndian.Uint16(payload[i : i+2])),
			value: binary.BigEndian.Uint32(payload[i+2 : i+6]),
		})
	}
	return entries, nil
}

func appendSettings(dst []byte, entries []settingsEntry) []byte {
	for _, e := range entries {
		var buf [6]byte
		binary.BigEndian.PutUint16(buf[0:2], uint16(e.id))
		binary.BigEndian.PutUint32(buf[2:6], e.value)
		dst = append(dst, buf[:]...)
	}
	return dst
}

// peerSettings is the subset of the remote SETTINGS this engine acts
// on; everything else (push, header list size) is accepted but not
// enforced by this implementation.
type peerSettings struct {
	headerTableSize   uint32
	initialWindowSize uint32
	maxFrameSize      uint32
}

func defaultPeerSettings() peerSettings {
	return peerSettings{
		headerTableSize:   defaultHeaderTableSize,
		initialWindowSize: DefaultWindowSize,
		maxFrameSize:      defaultMaxFrameSize,
	}
}

func (p *peerSettings) apply(entries []settingsEntry) (windowDelta int32, err error) {
	prevWindow := p.initialWindowSize

	for _, e := range entries {
		switch e.id {
		case SettingHeaderTableSize:
			p.headerTableSize = e.value
		case SettingInitialWindowSize:
			if e.value > 0x7fffffff {
				return 0, errFlowControl
			}
			p.initialWindowSize = e.value
		case SettingMaxFrameSize:
			if e.value < defaultMaxFrameSize || e.value > 0xffffff {
				return 0, errProtocol
			}
			p.maxFrameSize = e.value
		case SettingEnablePush, SettingMaxConcurrentStreams, SettingMaxHeaderListSize:
			// accepted, not enforced by this engine.
		}
	}

	return int32(p.initialWindowSize) - int32(prevWindow), nil
}
