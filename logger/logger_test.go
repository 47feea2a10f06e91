package logger

import (
	"flag"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{lines: make(map[string][]string)}
}

func (r *recordingLogger) record(level, msg string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[level] = append(r.lines[level], fmt.Sprintf(msg, args...))
}

func (r *recordingLogger) Debugf(msg string, args ...any) { r.record("debug", msg, args...) }
func (r *recordingLogger) Infof(msg string, args ...any)  { r.record("info", msg, args...) }
func (r *recordingLogger) Warnf(msg string, args ...any)  { r.record("warn", msg, args...) }
func (r *recordingLogger) Errorf(msg string, args ...any) { r.record("error", msg, args...) }
func (r *recordingLogger) Fatalf(msg string, args ...any) { r.record("fatal", msg, args...) }

func TestGlogLogger_ImplementsLoggerInterface(t *testing.T) {
	var _ Logger = (*GlogLogger)(nil)
}

func TestNewGlogLogger(t *testing.T) {
	l := NewGlogLogger(3)

	glogLogger, ok := l.(*GlogLogger)
	assert.True(t, ok, "Logger should be of type *GlogLogger")
	assert.Equal(t, 3, glogLogger.depth)
}

func TestGlogLoggerDoesNotPanic(t *testing.T) {
	flag.Set("logtostderr", "true")
	flag.Set("v", "2")

	l := NewGlogLogger(1)

	assert.NotPanics(t, func() {
		l.Debugf("debug message with args: %s, %d", "test", 123)
		l.Infof("info message")
		l.Warnf("warn message %v", []string{"a"})
		l.Errorf("error message")
	})
}

func TestPackageHelpersUseCurrentLogger(t *testing.T) {
	rec := newRecordingLogger()
	prev := SetLogger(rec)
	defer SetLogger(prev)

	Debugf("d %d", 1)
	Infof("i %d", 2)
	Warnf("w %d", 3)
	Errorf("e %d", 4)
	Fatalf("f %d", 5)

	assert.Equal(t, []string{"d 1"}, rec.lines["debug"])
	assert.Equal(t, []string{"i 2"}, rec.lines["info"])
	assert.Equal(t, []string{"w 3"}, rec.lines["warn"])
	assert.Equal(t, []string{"e 4"}, rec.lines["error"])
	assert.Equal(t, []string{"f 5"}, rec.lines["fatal"])
}

func TestSetLoggerReturnsPrevious(t *testing.T) {
	first := newRecordingLogger()
	second := newRecordingLogger()

	orig := SetLogger(first)
	defer SetLogger(orig)

	assert.NotNil(t, orig)
	assert.Same(t, first, SetLogger(second))
}
