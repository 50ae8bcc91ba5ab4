// Package toast keeps the transient banners shown after user actions.
package toast

import (
	"context"
	"sync"
	"time"

	"nexus-assist/internal/timer"
)

const DefaultDuration = 3 * time.Second

type Kind string

const (
	Success Kind = "success"
	Info    Kind = "info"
	Warning Kind = "warning"
	Error   Kind = "error"
)

type Toast struct {
	ID        int
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

// Center tracks visible toasts. Each toast dismisses itself after its
// duration unless dismissed manually first. onChange receives the visible
// toasts, oldest first, whenever the set changes.
type Center struct {
	duration time.Duration
	onChange func([]Toast)
	scope    *timer.Scope

	mu     sync.Mutex
	nextID int
	toasts []Toast
	timers map[int]*timer.Handle
}

func NewCenter(ctx context.Context, duration time.Duration, onChange func([]Toast)) *Center {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Center{
		duration: duration,
		onChange: onChange,
		scope:    timer.NewScope(ctx),
		timers:   make(map[int]*timer.Handle),
	}
}

// Show displays a toast and returns its id. A positive d overrides the
// default duration.
func (c *Center) Show(kind Kind, message string, d time.Duration) int {
	if d <= 0 {
		d = c.duration
	}

	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.toasts = append(c.toasts, Toast{ID: id, Kind: kind, Message: message, CreatedAt: time.Now()})
	c.timers[id] = c.scope.After(d, func(context.Context) { c.dismiss(id, false) })
	visible := c.visibleLocked()
	c.mu.Unlock()

	c.notify(visible)
	return id
}

func (c *Center) Success(message string) int { return c.Show(Success, message, 0) }
func (c *Center) Info(message string) int    { return c.Show(Info, message, 0) }
func (c *Center) Warning(message string) int { return c.Show(Warning, message, 0) }
func (c *Center) Error(message string) int   { return c.Show(Error, message, 0) }

// Dismiss removes a toast before it expires. Reports whether it was visible.
func (c *Center) Dismiss(id int) bool {
	return c.dismiss(id, true)
}

func (c *Center) dismiss(id int, manual bool) bool {
	c.mu.Lock()
	idx := -1
	for i, t := range c.toasts {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	c.toasts = append(c.toasts[:idx], c.toasts[idx+1:]...)
	h := c.timers[id]
	delete(c.timers, id)
	visible := c.visibleLocked()
	c.mu.Unlock()

	// expiry runs on the timer's own goroutine, so only manual dismissals
	// may cancel it
	if manual && h != nil {
		h.Cancel()
	}
	c.notify(visible)
	return true
}

// Visible returns the toasts currently shown, oldest first.
func (c *Center) Visible() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleLocked()
}

func (c *Center) visibleLocked() []Toast {
	return append([]Toast(nil), c.toasts...)
}

func (c *Center) notify(visible []Toast) {
	if c.onChange != nil {
		c.onChange(visible)
	}
}

// Close stops all expiry timers.
func (c *Center) Close() {
	c.scope.Close()
}
