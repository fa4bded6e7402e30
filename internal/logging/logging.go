// Package logging is a thin wrapper over the standard library's log
// package that tags every line with its subsystem.
package logging

import (
	"log"
	"os"
)

// Logger prefixes every line with a fixed subsystem tag.
type Logger struct {
	prefix string
	std    *log.Logger
}

// New returns a Logger tagging its output with subsystem, e.g.
// "[server] listening on 0.0.0.0:27585".
func New(subsystem string) *Logger {
	return &Logger{
		prefix: "[" + subsystem + "] ",
		std:    log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Printf logs one line at the default level.
func (l *Logger) Printf(format string, args ...any) {
	l.std.Printf(l.prefix+format, args...)
}

// Fatalf logs one line and terminates the process, matching the
// teacher's use of log.Fatal for unrecoverable startup errors.
func (l *Logger) Fatalf(format string, args ...any) {
	l.std.Fatalf(l.prefix+format, args...)
}
