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

// Package config holds the settings every other package needs at startup:
// socket endpoints, HTTP/2 protocol defaults, the timer durations named in
// spec (backlog timeout, AppSocket match timeout, shutdown watchdog) and
// task queue thread counts. It does not parse flags or files itself; a CLI
// or env-var layer is expected to populate a Settings value and hand it to
// Registry.Validate before the runtime starts.
package config

import (
	"net"

	liberr "github.com/nabbar/dimcore/errors"

	"github.com/nabbar/dimcore/duration"
)

// JSONIndent matches the teacher's config package default indent for
// DefaultConfig output.
const JSONIndent = "  "

// Socket carries the listener address and dial-side timeouts for the
// completion-based socket layer.
type Socket struct {
	ListenAddr     string            `json:"listen_addr" yaml:"listen_addr"`
	DialTimeout    duration.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	BacklogTimeout duration.Duration `json:"backlog_timeout" yaml:"backlog_timeout"`
}

// DefaultSocket returns the spec's defaults: no listener configured, a 30s
// dial timeout, and the 2-minute backlog disconnect timeout.
func DefaultSocket() Socket {
	return Socket{
		DialTimeout:    duration.Seconds(30),
		BacklogTimeout: duration.Minutes(2),
	}
}

// Validate checks that ListenAddr, when set, parses as a host:port pair.
func (s Socket) Validate() liberr.Error {
	if s.ListenAddr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(s.ListenAddr); err != nil {
		return ErrInvalidSocket.Error(err)
	}
	if s.DialTimeout <= 0 {
		return ErrInvalidSocket.Error(nil)
	}
	if s.BacklogTimeout <= 0 {
		return ErrInvalidSocket.Error(nil)
	}
	return nil
}

// HTTP2 carries the HTTP/2 SETTINGS frame defaults exchanged at connection
// startup (spec.md §4.6/§4.7).
type HTTP2 struct {
	HeaderTableSize      uint32 `json:"header_table_size" yaml:"header_table_size"`
	InitialWindowSize    uint32 `json:"initial_window_size" yaml:"initial_window_size"`
	MaxFrameSize         uint32 `json:"max_frame_size" yaml:"max_frame_size"`
	MaxConcurrentStreams uint32 `json:"max_concurrent_streams" yaml:"max_concurrent_streams"`
	MaxHeaderListSize    uint32 `json:"max_header_list_size" yaml:"max_header_list_size"`
}

// DefaultHTTP2 returns RFC 7540 §6.5.2's default SETTINGS values, except
// MaxConcurrentStreams and MaxHeaderListSize which the RFC leaves unbounded
// and this module bounds to sane operational defaults.
func DefaultHTTP2() HTTP2 {
	return HTTP2{
		HeaderTableSize:      4096,
		InitialWindowSize:    65535,
		MaxFrameSize:         16384,
		MaxConcurrentStreams: 250,
		MaxHeaderListSize:    65536,
	}
}

// Validate checks the HTTP/2 settings fall within RFC 7540 §6.5.2's legal
// ranges.
func (h HTTP2) Validate() liberr.Error {
	if h.HeaderTableSize == 0 {
		return ErrInvalidHTTP2.Error(nil)
	}
	if h.InitialWindowSize > 1<<31-1 {
		return ErrInvalidHTTP2.Error(nil)
	}
	if h.MaxFrameSize < 16384 || h.MaxFrameSize > 1<<24-1 {
		return ErrInvalidHTTP2.Error(nil)
	}
	if h.MaxConcurrentStreams == 0 {
		return ErrInvalidHTTP2.Error(nil)
	}
	return nil
}

// Timers carries every duration named in spec.md outside the socket
// backlog timeout: the AppSocket match timeout and the shutdown watchdog.
type Timers struct {
	MatchTimeout     duration.Duration `json:"match_timeout" yaml:"match_timeout"`
	ShutdownWatchdog duration.Duration `json:"shutdown_watchdog" yaml:"shutdown_watchdog"`
	StreamGCGrace    duration.Duration `json:"stream_gc_grace" yaml:"stream_gc_grace"`
}

// DefaultTimers returns spec.md's named defaults: a 10s AppSocket match
// timeout, a 2-minute shutdown watchdog, and the 5s deleted-stream grace
// period decided in DESIGN.md's Open Questions.
func DefaultTimers() Timers {
	return Timers{
		MatchTimeout:     duration.Seconds(10),
		ShutdownWatchdog: duration.Minutes(2),
		StreamGCGrace:    duration.Seconds(5),
	}
}

// Validate checks every timer is strictly positive.
func (t Timers) Validate() liberr.Error {
	if t.MatchTimeout <= 0 || t.ShutdownWatchdog <= 0 || t.StreamGCGrace <= 0 {
		return ErrInvalidTimers.Error(nil)
	}
	return nil
}

// Queues carries the task runtime's worker-thread counts.
type Queues struct {
	ComputeThreads int `json:"compute_threads" yaml:"compute_threads"`
}

// DefaultQueues returns a single compute worker; callers size this to the
// host's CPU count.
func DefaultQueues() Queues {
	return Queues{ComputeThreads: 1}
}

// Validate checks ComputeThreads is at least 1 (the event queue's own
// single worker is not configurable here and is not part of Queues).
func (q Queues) Validate() liberr.Error {
	if q.ComputeThreads < 1 {
		return ErrInvalidQueues.Error(nil)
	}
	return nil
}

// Settings is the complete set of startup configuration this module reads.
// A zero Settings is not valid; use Default to get one with every section
// populated, then override the fields a collaborator's CLI/env layer
// parsed.
type Settings struct {
	Socket Socket `json:"socket" yaml:"socket"`
	HTTP2  HTTP2  `json:"http2" yaml:"http2"`
	Timers Timers `json:"timers" yaml:"timers"`
	Queues Queues `json:"queues" yaml:"queues"`
}

// Default returns Settings populated with every section's defaults.
func Default() Settings {
	return Settings{
		Socket: DefaultSocket(),
		HTTP2:  DefaultHTTP2(),
		Timers: DefaultTimers(),
		Queues: DefaultQueues(),
	}
}

// Validate runs every section's Validate and returns the first failure.
func (s Settings) Validate() liberr.Error {
	if e := s.Socket.Validate(); e != nil {
		return e
	}
	if e := s.HTTP2.Validate(); e != nil {
		return e
	}
	if e := s.Timers.Validate(); e != nil {
		return e
	}
	if e := s.Queues.Validate(); e != nil {
		return e
	}
	return nil
}
