// Package typewriter reveals a finished text one character at a time.
package typewriter

import (
	"context"
	"sync"
	"time"

	"nexus-assist/internal/timer"
)

const (
	DefaultTarget   = 8 * time.Second
	DefaultMinDelay = 10 * time.Millisecond
	DefaultMaxDelay = 50 * time.Millisecond
)

// Sink receives the reveal. Reveal is called with each longer prefix;
// Commit is called exactly once with the full text when the reveal ends.
type Sink interface {
	Reveal(partial string)
	Commit(full string)
}

type Options struct {
	Target   time.Duration
	MinDelay time.Duration
	MaxDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Target <= 0 {
		o.Target = DefaultTarget
	}
	if o.MinDelay <= 0 {
		o.MinDelay = DefaultMinDelay
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = DefaultMaxDelay
	}
	if o.MaxDelay < o.MinDelay {
		o.MaxDelay = o.MinDelay
	}
	return o
}

// Delay is the per-character delay for a text of n characters:
// target/n clamped to [min, max].
func Delay(n int, target, min, max time.Duration) time.Duration {
	if n <= 0 {
		return min
	}
	d := target / time.Duration(n)
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}

// Presenter runs at most one reveal at a time against its sink.
type Presenter struct {
	sink Sink
	opts Options

	mu       sync.Mutex
	handle   *timer.Handle
	last     *timer.Handle
	revealed int
	total    int
}

func New(sink Sink, opts Options) *Presenter {
	return &Presenter{sink: sink, opts: opts.withDefaults()}
}

// Present starts revealing fullText, cancelling any reveal in progress
// first. Empty text is committed immediately without scheduling a timer.
func (p *Presenter) Present(ctx context.Context, fullText string) {
	p.Cancel()

	runes := []rune(fullText)
	if len(runes) == 0 {
		p.mu.Lock()
		p.revealed, p.total = 0, 0
		p.mu.Unlock()
		p.sink.Commit(fullText)
		return
	}

	delay := Delay(len(runes), p.opts.Target, p.opts.MinDelay, p.opts.MaxDelay)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.revealed, p.total = 0, len(runes)

	var h *timer.Handle
	h = timer.Every(ctx, delay, func(ctx context.Context) {
		p.mu.Lock()
		// a newer Present or Cancel replaced this reveal
		if p.handle != h {
			p.mu.Unlock()
			return
		}
		p.revealed++
		n := p.revealed
		done := n >= len(runes)
		if done {
			p.handle = nil
			h.Cancel()
		}
		p.mu.Unlock()

		p.sink.Reveal(string(runes[:n]))
		if done {
			p.sink.Commit(fullText)
		}
	})
	p.handle = h
	p.last = h
}

// Cancel stops the current reveal without committing it.
func (p *Presenter) Cancel() {
	p.mu.Lock()
	h := p.handle
	p.handle = nil
	p.mu.Unlock()

	if h != nil {
		h.Stop()
	}
}

// Wait blocks until the most recent reveal has committed or been cancelled,
// or ctx ends.
func (p *Presenter) Wait(ctx context.Context) error {
	p.mu.Lock()
	h := p.last
	p.mu.Unlock()

	if h == nil {
		return nil
	}
	select {
	case <-h.Done():
		p.mu.Lock()
		p.clearEndedLocked()
		p.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// clearEndedLocked drops a handle whose timer already exited, which happens
// when the context given to Present ends mid-reveal.
func (p *Presenter) clearEndedLocked() {
	if p.handle == nil {
		return
	}
	select {
	case <-p.handle.Done():
		p.handle = nil
	default:
	}
}

// Active reports whether a reveal is in progress.
func (p *Presenter) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearEndedLocked()
	return p.handle != nil
}

// Progress returns how many characters of the current text are revealed.
func (p *Presenter) Progress() (revealed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revealed, p.total
}
