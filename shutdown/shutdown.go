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

// Package shutdown implements the three-phase (client/server/console)
// shutdown coordinator: each phase calls every registered handler,
// newest registration first, with first_try semantics and a watchdog
// timeout that aborts the process if a phase stalls.
package shutdown

import (
	"sync"
	"time"

	liberr "github.com/nabbar/dimcore/errors"
	liblog "github.com/nabbar/dimcore/logger"
)

// Phase names a shutdown phase, in the order they run.
type Phase int

const (
	Client Phase = iota
	Server
	Console

	numPhases
)

func (p Phase) String() string {
	switch p {
	case Client:
		return "client"
	case Server:
		return "server"
	case Console:
		return "console"
	default:
		return "unknown"
	}
}

// Notifier is a shutdown handler for one phase. OnShutdown is called
// with firstTry true exactly once; if it calls Incomplete() on its
// Token before returning, it is called again and again with firstTry
// false until a call returns without signalling incomplete.
type Notifier interface {
	OnShutdown(token *Token)
}

// Token is passed to a handler's OnShutdown call so it can signal that
// its phase work has not finished yet.
type Token struct {
	FirstTry bool

	mu         sync.Mutex
	incomplete bool
}

// Incomplete marks the current phase invocation as unfinished; the
// coordinator will call OnShutdown again with FirstTry=false.
func (t *Token) Incomplete() {
	t.mu.Lock()
	t.incomplete = true
	t.mu.Unlock()
}

func (t *Token) isIncomplete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.incomplete
}

type registration struct {
	phase   Phase
	notify  Notifier
	stopped bool
}

// Coordinator runs the three shutdown phases in order, newest
// registration first within each phase, with a watchdog that aborts the
// process if a phase stalls past its timeout.
type Coordinator struct {
	mu           sync.Mutex
	handlers     []*registration
	timeout      time.Duration
	disableWatch bool
	log          liblog.FuncLog
	onWatchdog   func()
}

// New returns a Coordinator with the default 2-minute watchdog timeout.
func New(log liblog.FuncLog) *Coordinator {
	return &Coordinator{
		timeout: 2 * time.Minute,
		log:     log,
	}
}

func (c *Coordinator) logger() liblog.Logger {
	c.mu.Lock()
	l := c.log
	c.mu.Unlock()
	if l == nil {
		return nil
	}
	return l()
}

// Register adds a handler for phase. Registrations within a phase run
// newest-first, matching the original's "cleaners are in the order
// (newest to oldest) that they will be executed".
func (c *Coordinator) Register(phase Phase, n Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append([]*registration{{phase: phase, notify: n}}, c.handlers...)
}

// SetTimeout overrides the watchdog timeout (default 2 minutes).
func (c *Coordinator) SetTimeout(d time.Duration) {
	c.mu.Lock()
	c.timeout = d
	c.mu.Unlock()
}

// DisableTimeout turns off the watchdog, for tests that intentionally
// exercise a stalling handler.
func (c *Coordinator) DisableTimeout(disable bool) {
	c.mu.Lock()
	c.disableWatch = disable
	c.mu.Unlock()
}

// SetWatchdogFunc overrides what runs when a phase's watchdog fires.
// Defaults to a fatal log entry; tests substitute a non-fatal probe.
func (c *Coordinator) SetWatchdogFunc(fn func()) {
	c.mu.Lock()
	c.onWatchdog = fn
	c.mu.Unlock()
}

func (c *Coordinator) watchdogFunc() func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.onWatchdog != nil {
		return c.onWatchdog
	}
	return func() {
		if l := c.logger(); l != nil {
			l.Fatal("shutdown phase watchdog expired", liblog.Fields{"code": liberr.MinPkgShutdown})
		}
	}
}

func (c *Coordinator) handlersFor(phase Phase) []*registration {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*registration, 0, len(c.handlers))
	for _, r := range c.handlers {
		if r.phase == phase && !r.stopped {
			out = append(out, r)
		}
	}
	return out
}

// Run executes all three phases in order: client, server, console.
func (c *Coordinator) Run() {
	for p := Phase(0); p < numPhases; p++ {
		c.runPhase(p)
	}
}

func (c *Coordinator) runPhase(phase Phase) {
	handlers := c.handlersFor(phase)
	if len(handlers) == 0 {
		return
	}

	watchdogDone := c.armWatchdog()
	defer watchdogDone()

	pending := handlers
	firstTry := true

	for len(pending) > 0 {
		var stillPending []*registration

		for _, r := range pending {
			tok := &Token{FirstTry: firstTry}
			r.notify.OnShutdown(tok)
			if tok.isIncomplete() {
				stillPending = append(stillPending, r)
			} else {
				c.mu.Lock()
				r.stopped = true
				c.mu.Unlock()
			}
		}

		pending = stillPending
		firstTry = false
	}
}

// armWatchdog starts a timer that invokes the watchdog function if not
// stopped before the phase's timeout elapses; it returns the stop func.
func (c *Coordinator) armWatchdog() func() {
	c.mu.Lock()
	disabled := c.disableWatch
	d := c.timeout
	c.mu.Unlock()

	if disabled {
		return func() {}
	}

	timer := time.AfterFunc(d, c.watchdogFunc())
	return func() { timer.Stop() }
}
