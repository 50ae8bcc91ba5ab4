// Package otp implements the resend countdown shown while a user waits for a
// verification code.
package otp

import (
	"context"
	"sync"
	"time"

	"nexus-assist/internal/timer"
)

const DefaultSeconds = 30

// ResendFunc asks the backend for a new code.
type ResendFunc func(ctx context.Context) error

// Countdown gates the resend action: resend is only possible once the
// counter reaches zero, and a successful resend restarts the count.
type Countdown struct {
	seconds int
	step    time.Duration
	onTick  func(remaining int)

	mu        sync.Mutex
	remaining int
	handle    *timer.Handle
}

// NewCountdown counts down from seconds, one unit per step. A zero step
// means one second.
func NewCountdown(seconds int, step time.Duration, onTick func(remaining int)) *Countdown {
	if seconds <= 0 {
		seconds = DefaultSeconds
	}
	if step <= 0 {
		step = time.Second
	}
	return &Countdown{seconds: seconds, step: step, onTick: onTick}
}

// Start (re)starts the countdown from the full duration.
func (c *Countdown) Start(ctx context.Context) {
	c.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = c.seconds

	var h *timer.Handle
	h = timer.Every(ctx, c.step, func(context.Context) {
		c.mu.Lock()
		if c.handle != h {
			c.mu.Unlock()
			return
		}
		if c.remaining > 0 {
			c.remaining--
		}
		left := c.remaining
		if left == 0 {
			c.handle = nil
			h.Cancel()
		}
		c.mu.Unlock()

		if c.onTick != nil {
			c.onTick(left)
		}
	})
	c.handle = h
}

func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Countdown) CanResend() bool {
	return c.Remaining() == 0
}

// Resend calls fn only when the countdown has finished and restarts it on
// success. While time remains it is a no-op and reports false.
func (c *Countdown) Resend(ctx context.Context, fn ResendFunc) (bool, error) {
	if !c.CanResend() {
		return false, nil
	}
	if err := fn(ctx); err != nil {
		return true, err
	}
	c.Start(ctx)
	return true, nil
}

// Stop cancels the countdown, leaving the remaining count where it is.
func (c *Countdown) Stop() {
	c.mu.Lock()
	h := c.handle
	c.handle = nil
	c.mu.Unlock()

	if h != nil {
		h.Stop()
	}
}
