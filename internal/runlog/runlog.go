// Package runlog is the engine's log stream: timestamped lines written to a
// writer and fanned out to subscriber channels, so a presentation layer can
// render the stream without the engine depending on it.
package runlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const stampLayout = "2006-01-02 15:04:05"

type Logger struct {
	mu   sync.Mutex
	out  io.Writer
	now  func() time.Time
	subs []chan string
}

// New returns a logger writing to out. A nil out defaults to stderr.
func New(out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{out: out, now: time.Now}
}

// Printf appends one timestamped line to the stream.
func (l *Logger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("[%s] %s", l.now().Format(stampLayout), fmt.Sprintf(format, args...))
	fmt.Fprintln(l.out, line)
	for _, ch := range l.subs {
		select {
		case ch <- line:
		default:
			// slow subscriber: drop rather than stall the operation
		}
	}
}

// Subscribe returns a buffered channel receiving every subsequent line.
// Lines are dropped for subscribers that fall behind.
func (l *Logger) Subscribe(buf int) <-chan string {
	if buf <= 0 {
		buf = 64
	}
	ch := make(chan string, buf)
	l.mu.Lock()
	l.subs = append(l.subs, ch)
	l.mu.Unlock()
	return ch
}

// SetNow overrides the clock. Useful for tests.
func (l *Logger) SetNow(now func() time.Time) {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
}
