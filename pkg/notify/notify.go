// Package notify is the in-process notification center: success and failure
// toasts published by the service layer, consumed by UI subscribers, and
// auto-dismissed after a fixed interval.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/platinummonkey/backoffice/pkg/observability"
)

// Level is the notification severity
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// DefaultDismissAfter is how long a notification stays active
const DefaultDismissAfter = 5 * time.Second

// Notification is a user-visible toast
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Center publishes notifications to subscribers and tracks the active set
type Center struct {
	mu           sync.Mutex
	active       map[string]Notification
	subs         map[int]chan Notification
	nextSub      int
	dismissAfter time.Duration
	logger       *observability.Logger
	metrics      *observability.Metrics
}

// NewCenter creates a notification center. dismissAfter <= 0 uses the default.
func NewCenter(dismissAfter time.Duration, logger *observability.Logger, metrics *observability.Metrics) *Center {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	return &Center{
		active:       make(map[string]Notification),
		subs:         make(map[int]chan Notification),
		dismissAfter: dismissAfter,
		logger:       logger,
		metrics:      metrics,
	}
}

// Publish creates a notification, fans it out, and schedules its dismissal
func (c *Center) Publish(level Level, message string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.active[n.ID] = n
	for _, ch := range c.subs {
		select {
		case ch <- n:
		default:
		}
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.NotificationsTotal.WithLabelValues(string(level)).Inc()
	}

	time.AfterFunc(c.dismissAfter, func() {
		c.Dismiss(n.ID)
	})

	return n
}

// Success publishes a success toast
func (c *Center) Success(message string) Notification {
	return c.Publish(LevelSuccess, message)
}

// Error publishes an error toast
func (c *Center) Error(message string) Notification {
	return c.Publish(LevelError, message)
}

// Info publishes an informational toast
func (c *Center) Info(message string) Notification {
	return c.Publish(LevelInfo, message)
}

// Dismiss removes a notification from the active set
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	delete(c.active, id)
	c.mu.Unlock()
}

// Active returns the currently visible notifications
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, 0, len(c.active))
	for _, n := range c.active {
		out = append(out, n)
	}
	return out
}

// Subscribe registers a notification observer; the cancel function releases it
func (c *Center) Subscribe() (<-chan Notification, func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	ch := make(chan Notification, 16)
	c.subs[id] = ch
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if existing, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(existing)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}
