// Package chat runs a question-and-answer session with Nexus, revealing each
// answer through a typewriter.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"nexus-assist/internal/model"
	"nexus-assist/internal/typewriter"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrEmptyQuestion = errors.New("Please enter a question")
	ErrBusy          = errors.New("Please wait for the current answer")
)

type API interface {
	Query(ctx context.Context, question string) model.Result[model.NexusAnswer]
}

type Turn struct {
	Role   string
	Text   string
	ChatID string
}

// Conversation allows one question at a time: the next may be asked once the
// previous answer has been fully revealed or skipped.
type Conversation struct {
	api       API
	out       typewriter.Sink
	presenter *typewriter.Presenter

	mu         sync.Mutex
	busy       bool
	pending    string
	pendingID  string
	transcript []Turn
}

// New creates a conversation revealing answers into out.
func New(api API, out typewriter.Sink, opts typewriter.Options) *Conversation {
	c := &Conversation{api: api, out: out}
	c.presenter = typewriter.New(revealSink{c}, opts)
	return c
}

type revealSink struct{ c *Conversation }

func (s revealSink) Reveal(partial string) { s.c.out.Reveal(partial) }
func (s revealSink) Commit(full string)    { s.c.commit(full) }

func (c *Conversation) commit(full string) {
	c.mu.Lock()
	if !c.busy {
		c.mu.Unlock()
		return
	}
	c.transcript = append(c.transcript, Turn{Role: RoleAssistant, Text: full, ChatID: c.pendingID})
	c.busy = false
	c.pending, c.pendingID = "", ""
	c.mu.Unlock()

	c.out.Commit(full)
}

// Ask sends question and starts revealing the answer. The returned result
// carries the full answer; the reveal continues in the background.
func (c *Conversation) Ask(ctx context.Context, question string) model.Result[model.NexusAnswer] {
	question = strings.TrimSpace(question)
	if question == "" {
		return model.Fail[model.NexusAnswer](ErrEmptyQuestion.Error())
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return model.Fail[model.NexusAnswer](ErrBusy.Error())
	}
	c.busy = true
	c.transcript = append(c.transcript, Turn{Role: RoleUser, Text: question})
	c.mu.Unlock()

	res := c.api.Query(ctx, question)
	if !res.Success {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
		return res
	}

	c.mu.Lock()
	c.pending, c.pendingID = res.Data.Answer, res.Data.ChatID
	c.mu.Unlock()

	// the reveal outlives the request context
	c.presenter.Present(context.WithoutCancel(ctx), res.Data.Answer)
	return res
}

// Skip ends the current reveal and commits the whole answer at once.
func (c *Conversation) Skip() {
	c.presenter.Cancel()

	c.mu.Lock()
	full := c.pending
	busy := c.busy
	c.mu.Unlock()

	if busy {
		c.commit(full)
	}
}

// Wait blocks until the current answer is committed or ctx ends.
func (c *Conversation) Wait(ctx context.Context) error {
	return c.presenter.Wait(ctx)
}

func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Conversation) Transcript() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Turn(nil), c.transcript...)
}

// Close stops any reveal without committing it.
func (c *Conversation) Close() {
	c.presenter.Cancel()
}
