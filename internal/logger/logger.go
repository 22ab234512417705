// Package logger builds the structured logger shared by the pipeline.
package logger

import (
	"io"
	"os"

	"github.com/phuslu/log"
)

// New returns a console logger for development and a JSON logger otherwise.
func New(level, env string) *log.Logger {
	l := &log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "15:04:05",
	}
	if env == "production" {
		l.TimeFormat = ""
		l.Writer = &log.IOWriter{Writer: os.Stdout}
		return l
	}
	l.Writer = &log.ConsoleWriter{
		ColorOutput:    true,
		QuoteString:    true,
		EndWithMessage: true,
	}
	return l
}

// WithComponent returns a copy of l tagging every entry with component=name.
func WithComponent(l *log.Logger, name string) *log.Logger {
	if l == nil {
		l = Discard()
	}
	child := *l
	child.Context = log.NewContext(nil).Str("component", name).Value()
	return &child
}

// Discard returns a logger that drops everything. Used by tests and as a nil fallback.
func Discard() *log.Logger {
	return &log.Logger{
		Level:  log.PanicLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}
}
