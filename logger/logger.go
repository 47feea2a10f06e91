package logger

import "sync/atomic"

// The package level helpers sit one frame above GlogLogger, hence depth 2.
var current atomic.Pointer[Logger]

func init() {
	SetLogger(NewGlogLogger(2))
}

// SetLogger replaces the Logger used by the package level helpers and returns the previous one.
func SetLogger(l Logger) Logger {
	prev := current.Swap(&l)
	if prev == nil {
		return nil
	}
	return *prev
}

func get() Logger {
	return *current.Load()
}

// Debug level logging
func Debugf(msg string, args ...any) {
	get().Debugf(msg, args...)
}

// Info level logging
func Infof(msg string, args ...any) {
	get().Infof(msg, args...)
}

// Warn level logging
func Warnf(msg string, args ...any) {
	get().Warnf(msg, args...)
}

// Error level logging
func Errorf(msg string, args ...any) {
	get().Errorf(msg, args...)
}

// Fatal level logging and terminates the program execution.
func Fatalf(msg string, args ...any) {
	get().Fatalf(msg, args...)
}
