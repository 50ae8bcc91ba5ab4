// Package timer provides timers that are always released: every timer runs
// in its own goroutine and is torn down when stopped, when its context ends,
// or when the owning Scope closes.
package timer

import (
	"context"
	"sync"
	"time"
)

// Handle controls one running timer.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Every calls fn once per period until the handle is stopped or ctx ends.
// Calls never overlap; ticks that fall due while fn is still running are
// dropped.
func Every(ctx context.Context, period time.Duration, fn func(context.Context)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// a stop that raced the tick wins
				if ctx.Err() != nil {
					return
				}
				fn(ctx)
			}
		}
	}()

	return h
}

// After calls fn once after d unless the handle is stopped first.
func After(ctx context.Context, d time.Duration, fn func(context.Context)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		t := time.NewTimer(d)
		defer t.Stop()

		select {
		case <-ctx.Done():
		case <-t.C:
			if ctx.Err() == nil {
				fn(ctx)
			}
		}
	}()

	return h
}

// Cancel asks the timer to stop without waiting. It is safe to call from
// inside the timer's own callback.
func (h *Handle) Cancel() {
	h.cancel()
}

// Stop cancels the timer and waits for its goroutine to exit. Must not be
// called from the timer's own callback; use Cancel there.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed once the timer goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Scope owns a set of timers and releases all of them on Close.
type Scope struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	handles []*Handle
	closed  bool
}

func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

func (s *Scope) Every(period time.Duration, fn func(context.Context)) *Handle {
	return s.add(func(ctx context.Context) *Handle { return Every(ctx, period, fn) })
}

func (s *Scope) After(d time.Duration, fn func(context.Context)) *Handle {
	return s.add(func(ctx context.Context) *Handle { return After(ctx, d, fn) })
}

func (s *Scope) add(start func(context.Context) *Handle) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return stopped()
	}

	// drop handles that already finished so long-lived scopes don't grow
	live := s.handles[:0]
	for _, h := range s.handles {
		select {
		case <-h.done:
		default:
			live = append(live, h)
		}
	}
	s.handles = live

	h := start(s.ctx)
	s.handles = append(s.handles, h)
	return h
}

// Close stops every timer started from the scope and waits for them.
// Timers requested after Close never run.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	handles := s.handles
	s.handles = nil
	s.mu.Unlock()

	s.cancel()
	for _, h := range handles {
		<-h.done
	}
}

func stopped() *Handle {
	done := make(chan struct{})
	close(done)
	return &Handle{cancel: func() {}, done: done}
}
