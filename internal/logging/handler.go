// Package logging builds the application logger. Its ContextHandler tags
// records with the request id and keeps WARN and ERROR records in an
// in-memory event log that the console exposes to the operator.
package logging

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// DefaultEventCapacity is how many events the event log keeps.
const DefaultEventCapacity = 200

// Event is a recorded log entry.
type Event struct {
	Time    time.Time         `json:"time"`
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

// EventLog is a bounded, newest-last buffer of events.
type EventLog struct {
	mu     sync.Mutex
	events []Event
	size   int
}

// NewEventLog creates an event log holding at most size events.
func NewEventLog(size int) *EventLog {
	if size <= 0 {
		size = DefaultEventCapacity
	}
	return &EventLog{size: size}
}

// Add appends an event, dropping the oldest one when full.
func (l *EventLog) Add(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == l.size {
		copy(l.events, l.events[1:])
		l.events = l.events[:l.size-1]
	}
	l.events = append(l.events, e)
}

// Events returns a copy of the recorded events, oldest first.
func (l *EventLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

// ContextHandler is a slog.Handler that wraps another handler, adds the
// request id found in the context and copies records at or above a level to
// an EventLog.
type ContextHandler struct {
	inner  slog.Handler
	events *EventLog
	level  slog.Level // Minimum level to record (default: WARN)
	attrs  []slog.Attr
}

// NewContextHandler wraps inner. events may be nil.
func NewContextHandler(inner slog.Handler, events *EventLog) *ContextHandler {
	return &ContextHandler{
		inner:  inner,
		events: events,
		level:  slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id := middleware.GetReqID(ctx); id != "" {
			r = r.Clone()
			r.AddAttrs(slog.String("request_id", id))
		}
	}

	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if h.events != nil && r.Level >= h.level {
		h.events.Add(h.toEvent(r))
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{
		inner:  h.inner.WithAttrs(attrs),
		events: h.events,
		level:  h.level,
		attrs:  append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{
		inner:  h.inner.WithGroup(name),
		events: h.events,
		level:  h.level,
		attrs:  h.attrs,
	}
}

func (h *ContextHandler) toEvent(r slog.Record) Event {
	e := Event{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: r.Message,
	}
	if len(h.attrs) == 0 && r.NumAttrs() == 0 {
		return e
	}

	e.Attrs = make(map[string]string, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		e.Attrs[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.String()
		return true
	})
	return e
}

// New builds the application logger: text output in development, JSON
// otherwise, wrapped in a ContextHandler.
func New(w io.Writer, development bool, level slog.Level, events *EventLog) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	if development {
		inner = slog.NewTextHandler(w, opts)
	} else {
		inner = slog.NewJSONHandler(w, opts)
	}
	return slog.New(NewContextHandler(inner, events))
}
