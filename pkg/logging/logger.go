// Package logging provides the leveled logger used by the converter.
package logging

import (
	"io"
	"sync"

	"github.com/kpango/glg"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// GlgLogger writes leveled messages through a glg instance.
type GlgLogger struct {
	mu    sync.Mutex
	debug bool
	mode  glg.MODE
	g     *glg.Glg
}

// New returns a logger writing to w, or to the standard streams when w is nil.
// Debug messages are dropped unless debug is set.
func New(w io.Writer, debug bool) *GlgLogger {
	mode := glg.STD
	g := glg.New()
	if w != nil {
		mode = glg.WRITER
		g.SetMode(mode).SetWriter(w).DisableColor()
	} else {
		g.SetMode(mode)
	}
	l := &GlgLogger{g: g, mode: mode}
	l.SetDebug(debug)
	return l
}

func (l *GlgLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *GlgLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = enabled
	if enabled {
		l.g.SetLevelMode(glg.DEBG, l.mode)
	} else {
		l.g.SetLevelMode(glg.DEBG, glg.NONE)
	}
}

func (l *GlgLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	_ = l.g.Debugf(format, args...)
}

func (l *GlgLogger) Infof(format string, args ...any) {
	_ = l.g.Infof(format, args...)
}

func (l *GlgLogger) Warnf(format string, args ...any) {
	_ = l.g.Warnf(format, args...)
}

func (l *GlgLogger) Errorf(format string, args ...any) {
	_ = l.g.Errorf(format, args...)
}

type nopLogger struct{}

// Nop returns a logger that discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool                { return false }
func (nopLogger) SetDebug(enabled bool)             {}
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}
