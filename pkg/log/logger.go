// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger describes a logger to be used by module inspection.
type Logger interface {
	// Debugf logs a message useful only when tracing validation.
	Debugf(format string, args ...interface{})

	// Warnf logs an warning message.
	Warnf(format string, args ...interface{})

	// Errorf logs an error message.
	Errorf(format string, args ...interface{})

	// Fatalf logs a fatal message and immediately exits the application
	// with os.Exit.
	Fatalf(format string, args ...interface{})
}

// DefaultLogger is the logger used by default everywhere within the module
// inspection packages.
var DefaultLogger Logger

func init() {
	DefaultLogger = NewLogger(os.Stderr, logrus.WarnLevel)
}

// NewLogger returns a logrus-backed Logger writing to w.
func NewLogger(w io.Writer, level logrus.Level) Logger {
	l := logrus.New()
	l.Out = w
	l.Level = level
	l.Formatter = &logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	}
	return logrusWrapper{Entry: l.WithField("component", "otamod")}
}

type logrusWrapper struct {
	Entry *logrus.Entry
}

// Debugf implements Logger.
func (logger logrusWrapper) Debugf(format string, args ...interface{}) {
	logger.Entry.Debugf(format, args...)
}

// Warnf implements Logger.
func (logger logrusWrapper) Warnf(format string, args ...interface{}) {
	logger.Entry.Warnf(format, args...)
}

// Errorf implements Logger.
func (logger logrusWrapper) Errorf(format string, args ...interface{}) {
	logger.Entry.Errorf(format, args...)
}

// Fatalf implements Logger.
func (logger logrusWrapper) Fatalf(format string, args ...interface{}) {
	logger.Entry.Fatalf(format, args...)
}

// SetVerbose switches the default logger to debug level output.
func SetVerbose(verbose bool) {
	level := logrus.WarnLevel
	if verbose {
		level = logrus.DebugLevel
	}
	DefaultLogger = NewLogger(os.Stderr, level)
}

// Debugf logs a debug message.
func Debugf(format string, args ...interface{}) {
	DefaultLogger.Debugf(format, args...)
}

// Warnf logs an warning message.
func Warnf(format string, args ...interface{}) {
	DefaultLogger.Warnf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	DefaultLogger.Errorf(format, args...)
}

// Fatalf logs a fatal message and immediately exits the application
// with os.Exit (which is expected to be called by the DefaultLogger.Fatalf).
func Fatalf(format string, args ...interface{}) {
	DefaultLogger.Fatalf(format, args...)
}
