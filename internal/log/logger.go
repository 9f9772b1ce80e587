// Package log provides named, leveled loggers backed by go-logging.
package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

type Level int

// The levels that can be passed to SetLevel.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var leveledBackend logging.LeveledBackend

// Logger is the subset of go-logging's logger used across the project.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns a logger tagged with the given module name.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects all loggers to w. The current level is kept.
func SetSink(w io.Writer) {
	level := logging.NOTICE
	if leveledBackend != nil {
		level = leveledBackend.GetLevel("")
	}
	backend := logging.NewLogBackend(w, "", 0)
	leveledBackend = logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	leveledBackend.SetLevel(level, "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the verbosity of every logger.
func SetLevel(level Level) {
	var l logging.Level
	switch level {
	case Debug:
		l = logging.DEBUG
	case Info:
		l = logging.INFO
	case Notice:
		l = logging.NOTICE
	case Warning:
		l = logging.WARNING
	default:
		l = logging.ERROR
	}
	leveledBackend.SetLevel(l, "")
}

// Discard returns a logger whose output is dropped. Useful in tests.
func Discard() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(...interface{})            {}
func (nopLogger) Debugf(string, ...interface{})   {}
func (nopLogger) Info(...interface{})             {}
func (nopLogger) Infof(string, ...interface{})    {}
func (nopLogger) Notice(...interface{})           {}
func (nopLogger) Noticef(string, ...interface{})  {}
func (nopLogger) Warning(...interface{})          {}
func (nopLogger) Warningf(string, ...interface{}) {}
func (nopLogger) Error(...interface{})            {}
func (nopLogger) Errorf(string, ...interface{})   {}

func init() {
	SetSink(os.Stderr)
	SetLevel(Notice)
}
