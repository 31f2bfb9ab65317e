package ddbstore

import (
	"log"

	"github.com/dgraph-io/badger/v4"
)

type stdLogger struct {
	l *log.Logger
}

// NewLogger adapts a standard library logger for BadgerDB. Badger's debug
// output is dropped.
func NewLogger(l *log.Logger) badger.Logger {
	if l == nil {
		l = log.Default()
	}
	return stdLogger{l: l}
}

func (s stdLogger) Errorf(format string, args ...any) {
	s.l.Printf("badger ERROR: "+format, args...)
}

func (s stdLogger) Warningf(format string, args ...any) {
	s.l.Printf("badger WARN: "+format, args...)
}

func (s stdLogger) Infof(format string, args ...any) {
	s.l.Printf("badger INFO: "+format, args...)
}

func (s stdLogger) Debugf(string, ...any) {}
