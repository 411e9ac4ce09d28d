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

package logger

import (
	"os"
	"sync"

	liblvl "github.com/nabbar/dimcore/logger/level"
	"github.com/sirupsen/logrus"
)

type logrusLogger struct {
	mut    sync.RWMutex
	log    *logrus.Logger
	fields Fields
}

// New returns a Logger backed by logrus, writing JSON-formatted entries to
// stderr at InfoLevel by default.
func New() Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(liblvl.InfoLevel.Logrus())

	return &logrusLogger{
		log:    l,
		fields: make(Fields),
	}
}

func (o *logrusLogger) SetLevel(lvl liblvl.Level) {
	o.mut.Lock()
	defer o.mut.Unlock()

	o.log.SetLevel(lvl.Logrus())
}

func (o *logrusLogger) Level() liblvl.Level {
	o.mut.RLock()
	defer o.mut.RUnlock()

	return fromLogrus(o.log.GetLevel())
}

func fromLogrus(l logrus.Level) liblvl.Level {
	switch l {
	case logrus.PanicLevel:
		return liblvl.PanicLevel
	case logrus.FatalLevel:
		return liblvl.FatalLevel
	case logrus.ErrorLevel:
		return liblvl.ErrorLevel
	case logrus.WarnLevel:
		return liblvl.WarnLevel
	case logrus.InfoLevel:
		return liblvl.InfoLevel
	case logrus.DebugLevel, logrus.TraceLevel:
		return liblvl.DebugLevel
	default:
		return liblvl.NilLevel
	}
}

func (o *logrusLogger) WithFields(f Fields) Logger {
	o.mut.RLock()
	defer o.mut.RUnlock()

	merged := make(Fields, len(o.fields)+len(f))
	for k, v := range o.fields {
		merged[k] = v
	}
	for k, v := range f {
		merged[k] = v
	}

	return &logrusLogger{
		log:    o.log,
		fields: merged,
	}
}

func (o *logrusLogger) entry(f Fields) *logrus.Entry {
	merged := make(logrus.Fields, len(o.fields)+len(f))
	for k, v := range o.fields {
		merged[k] = v
	}
	for k, v := range f {
		merged[k] = v
	}

	return o.log.WithFields(merged)
}

func (o *logrusLogger) Entry(lvl liblvl.Level, msg string, f Fields) {
	o.mut.RLock()
	defer o.mut.RUnlock()

	e := o.entry(f)

	//nolint exhaustive
	switch lvl {
	case liblvl.DebugLevel:
		e.Debug(msg)
	case liblvl.InfoLevel:
		e.Info(msg)
	case liblvl.WarnLevel:
		e.Warn(msg)
	case liblvl.ErrorLevel:
		e.Error(msg)
	case liblvl.FatalLevel:
		e.Fatal(msg)
	case liblvl.PanicLevel:
		e.Panic(msg)
	}
}

func (o *logrusLogger) Debug(msg string, f Fields) { o.Entry(liblvl.DebugLevel, msg, f) }
func (o *logrusLogger) Info(msg string, f Fields)  { o.Entry(liblvl.InfoLevel, msg, f) }
func (o *logrusLogger) Warn(msg string, f Fields)  { o.Entry(liblvl.WarnLevel, msg, f) }
func (o *logrusLogger) Error(msg string, f Fields) { o.Entry(liblvl.ErrorLevel, msg, f) }
func (o *logrusLogger) Fatal(msg string, f Fields) { o.Entry(liblvl.PanicLevel, msg, f) }
