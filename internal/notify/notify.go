// Package notify carries the outcome of store operations to whoever
// presents them (web toasts, logs, metrics). Store operations return a
// Notification and also fan it out to the registered hooks.
package notify

import (
	"context"
	"sync"
	"time"
)

// Op names the store operation a notification reports on.
type Op string

const (
	OpLoad   Op = "load"
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Level is the severity of a notification.
type Level string

const (
	// LevelInfo is used for silent outcomes such as a successful load.
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification describes the outcome of one store operation.
type Notification struct {
	Op      Op
	Level   Level
	Message string
	Err     error
	At      time.Time
}

// Failed reports whether the notification is an error.
func (n Notification) Failed() bool {
	return n.Level == LevelError
}

// Visible reports whether the notification should be shown to a user.
func (n Notification) Visible() bool {
	return n.Level == LevelSuccess || n.Level == LevelError
}

// Hook receives notifications.
type Hook interface {
	Notify(ctx context.Context, n Notification)
}

// HookFunc allows plain functions to satisfy Hook.
type HookFunc func(ctx context.Context, n Notification)

// Notify dispatches to the underlying function.
func (fn HookFunc) Notify(ctx context.Context, n Notification) {
	if fn == nil {
		return
	}
	fn(ctx, n)
}

// Hooks fans a notification out to zero or more hooks in order.
type Hooks []Hook

// Notify forwards n to every non-nil hook.
func (h Hooks) Notify(ctx context.Context, n Notification) {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		hook.Notify(ctx, n)
	}
}

// DefaultInboxSize bounds an Inbox created with a non-positive size.
const DefaultInboxSize = 20

// Inbox buffers user-visible notifications until they are drained.
// When full, the oldest entry is dropped.
type Inbox struct {
	mu    sync.Mutex
	items []Notification
	max   int
}

// NewInbox returns an inbox holding at most size notifications.
func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = DefaultInboxSize
	}
	return &Inbox{max: size}
}

// Notify implements Hook. Info notifications are ignored.
func (b *Inbox) Notify(_ context.Context, n Notification) {
	if !n.Visible() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, n)
	if over := len(b.items) - b.max; over > 0 {
		b.items = append([]Notification(nil), b.items[over:]...)
	}
}

// Drain returns the buffered notifications, oldest first, and empties
// the inbox.
func (b *Inbox) Drain() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	return out
}

// Len returns the number of buffered notifications.
func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
