package logger

import (
	"io"
	"log"
	"os"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

var LoggerEnabled = true

type DefaultLogger struct {
	name  string
	debug bool
	out   *log.Logger
}

// NewDefaultLogger writes to stderr with debug output enabled.
func NewDefaultLogger(name string) *DefaultLogger {
	return NewWriterLogger(name, os.Stderr, true)
}

// NewWriterLogger writes to w. When debug is false Debug calls are dropped.
func NewWriterLogger(name string, w io.Writer, debug bool) *DefaultLogger {
	return &DefaultLogger{
		name:  name,
		debug: debug,
		out:   log.New(w, "", log.LstdFlags),
	}
}

func (d *DefaultLogger) Debug(format string, args ...any) {
	if d.debug {
		d.printf("DEBUG", format, args...)
	}
}

func (d *DefaultLogger) Info(format string, args ...any) {
	d.printf("INFO", format, args...)
}

func (d *DefaultLogger) Error(format string, args ...any) {
	d.printf("ERROR", format, args...)
}

func (d *DefaultLogger) printf(level, format string, args ...any) {
	if !LoggerEnabled {
		return
	}
	d.out.Printf("["+level+"] "+d.name+" | "+format+"\n", args...)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}
