// Package notification shows cart outcomes to the shopper and reports cart
// activity read from the event stream.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Toast is one message shown to the shopper
type Toast struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Sink receives error toasts
type Sink interface {
	Error(ctx context.Context, message string)
}

// LogNotifier writes toasts to the log
type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: logger.WithField("component", "toast")}
}

func (n *LogNotifier) Error(_ context.Context, message string) {
	n.log.WithField("level", "error").Warn(message)
}

// Recorder keeps the toasts of the current request so they can be returned to
// the client. It also forwards every toast to next when set.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
	next   Sink
}

func NewRecorder(next Sink) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Error(ctx context.Context, message string) {
	r.mu.Lock()
	r.toasts = append(r.toasts, Toast{Level: "error", Message: message, At: time.Now()})
	r.mu.Unlock()

	if r.next != nil {
		r.next.Error(ctx, message)
	}
}

// Toasts returns a copy of the recorded toasts
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}
