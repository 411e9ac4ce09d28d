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

// Command dimcore wires the task runtime, timer wheel, shutdown
// coordinator, config loader and the AppSocket/HTTP2 listener stack
// into one process. It is the thinnest possible host for the library
// packages above it; a real deployment is expected to replace the
// route table and logging sink, not this wiring.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/nabbar/dimcore/appsocket"
	"github.com/nabbar/dimcore/config"
	"github.com/nabbar/dimcore/http2"
	"github.com/nabbar/dimcore/logger"
	"github.com/nabbar/dimcore/router"
	"github.com/nabbar/dimcore/shutdown"
	"github.com/nabbar/dimcore/socket"
	"github.com/nabbar/dimcore/socket/buffer"
	"github.com/nabbar/dimcore/task"
	"github.com/nabbar/dimcore/timerwheel"
)

func main() {
	cfgPath := flag.String("config", "", "YAML settings file; unset sections keep their defaults")
	flag.Parse()

	settings, err := loadSettings(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dimcore:", err)
		os.Exit(1)
	}

	log := logger.New()
	rt := task.New(settings.Queues.ComputeThreads)
	wheel := timerwheel.New(rt)
	pool := buffer.NewPool()
	down := shutdown.New(func() logger.Logger { return log })
	down.SetTimeout(settings.Timers.ShutdownWatchdog.Time())

	rtr := router.New()
	rtr.Add("/healthz", router.MethodGet, false, healthz)

	if settings.Socket.ListenAddr != "" {
		reg := appsocket.NewRegistry()
		reg.AddListener(settings.Socket.ListenAddr, appsocket.FamilyHTTP2,
			appsocket.FactoryFunc(http2.NewConnFactory(rtr)))

		ln, lerr := appsocket.Listen(rt, wheel, pool, reg, settings.Socket.ListenAddr,
			settings.Timers.MatchTimeout.Time(), settings.Socket.BacklogTimeout.Time())
		if lerr != nil {
			fmt.Fprintln(os.Stderr, "dimcore:", lerr)
			os.Exit(1)
		}
		down.Register(shutdown.Server, listenerCloser{ln})
		log.Info("listening", logger.Fields{"addr": ln.Addr().String()})
	}

	waitForSignal()

	down.Run()
	rt.Shutdown()
}

// loadSettings starts from config.Default() and overlays whatever
// sections a YAML file at path sets, so an absent or partial file still
// yields a fully populated, Validate-able Settings. Every section is
// also run through a config.Registry, exercising the same
// Register/Validate path a multi-component host would use instead of
// calling Settings.Validate directly.
func loadSettings(path string) (config.Settings, error) {
	s := config.Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return s, err
		}
		if err := yaml.Unmarshal(b, &s); err != nil {
			return s, err
		}
	}

	reg := config.NewRegistry()
	for _, c := range s.Components() {
		if e := reg.Register(c); e != nil {
			return s, e
		}
	}
	if e := reg.Validate(); e != nil {
		return s, e
	}
	return s, nil
}

func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}

// listenerCloser adapts a socket.Listener to shutdown.Notifier so the
// coordinator's Server phase closes the listening socket before the
// process exits.
type listenerCloser struct {
	ln *socket.Listener
}

func (l listenerCloser) OnShutdown(*shutdown.Token) {
	_ = l.ln.Close()
}

// healthz is the route table's one built-in handler, useful as a liveness
// check for whatever deploys this binary.
func healthz(req *router.Request) {
	resp := http2.NewMessage()
	resp.SetStatus(200)
	_ = req.Reply(resp)
}
