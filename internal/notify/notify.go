package notify

import (
	"context"
	"io"
	"log"
	"sync"
)

// Func adapts a plain function to the cart notifier interface.
type Func func(ctx context.Context, message string)

func (f Func) NotifyError(ctx context.Context, message string) {
	f(ctx, message)
}

// Logger writes every message to a log.Logger.
type Logger struct {
	logger *log.Logger
}

func NewLogger(logger *log.Logger) *Logger {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Logger{logger: logger}
}

func (l *Logger) NotifyError(_ context.Context, message string) {
	l.logger.Printf("notify: %s", message)
}

// Notifier is satisfied by every type in this package.
type Notifier interface {
	NotifyError(ctx context.Context, message string)
}

// Multi delivers each message to every wrapped notifier in order. Nil entries
// are skipped.
type Multi []Notifier

func NewMulti(targets ...Notifier) Multi {
	out := make(Multi, 0, len(targets))
	for _, t := range targets {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

func (m Multi) NotifyError(ctx context.Context, message string) {
	for _, t := range m {
		t.NotifyError(ctx, message)
	}
}

const DefaultRecorderSize = 32

// Recorder keeps the most recent messages until they are drained. Once full,
// the oldest message is dropped.
type Recorder struct {
	mu       sync.Mutex
	limit    int
	messages []string
}

func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = DefaultRecorderSize
	}
	return &Recorder{limit: limit}
}

func (r *Recorder) NotifyError(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == r.limit {
		r.messages = r.messages[1:]
	}
	r.messages = append(r.messages, message)
}

// Drain returns the pending messages oldest first and clears the buffer. It
// never returns nil.
func (r *Recorder) Drain() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	r.messages = nil
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}
