// Package logger builds the process logger from configuration and defines the
// narrow logging interface used by the analysis code.
package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Fields is a set of structured log fields.
type Fields = logrus.Fields

// Logger is what the analysis packages log through. It is satisfied by a
// logrus entry via FromEntry, or by Discard.
type Logger interface {
	WithFields(fields Fields) Logger
	Debug(args ...interface{})
	Warn(args ...interface{})
}

type entryLogger struct {
	entry *logrus.Entry
}

// FromEntry adapts a logrus entry, keeping its fields on every line.
func FromEntry(entry *logrus.Entry) Logger {
	return entryLogger{entry: entry}
}

func (l entryLogger) WithFields(fields Fields) Logger {
	return entryLogger{entry: l.entry.WithFields(fields)}
}

func (l entryLogger) Debug(args ...interface{}) { l.entry.Debug(args...) }

func (l entryLogger) Warn(args ...interface{}) { l.entry.Warn(args...) }

type discard struct{}

// Discard returns a Logger that drops everything.
func Discard() Logger { return discard{} }

func (d discard) WithFields(Fields) Logger { return d }
func (discard) Debug(...interface{})       {}
func (discard) Warn(...interface{})        {}

// NewDiscard returns a logrus logger that writes nowhere.
func NewDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// WithComponent tags log lines with the subsystem that wrote them.
func WithComponent(l logrus.FieldLogger, component string) *logrus.Entry {
	return l.WithField("component", component)
}

// WithFile tags log lines with the input file they concern.
func WithFile(l logrus.FieldLogger, path string) *logrus.Entry {
	return l.WithField("file", path)
}
