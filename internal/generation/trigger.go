// Package generation drives a single long-running generation request through
// idle → submitting → succeeded/failed.
package generation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"nexus-assist/internal/model"
	"nexus-assist/pkg/logger"
)

type Status int

const (
	Idle Status = iota
	Submitting
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	FallbackMessage = "Generation failed. Please try again."
	StoppedMessage  = "Generation stopped"
)

var (
	ErrBusy     = errors.New("a generation is already in progress")
	ErrFinished = errors.New("generation already completed")
)

// Field is a required input, named by its key and a human label.
type Field struct {
	Name  string
	Label string
}

// Output is what a successful generation yields.
type Output struct {
	ID       string
	Variants []string
}

// SendFunc performs the remote generation with already-trimmed fields.
type SendFunc func(ctx context.Context, fields map[string]string) model.Result[Output]

// ValidationError lists every required field that was blank.
type ValidationError struct {
	Missing []Field
}

func (e *ValidationError) Error() string {
	labels := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		labels[i] = f.Label
	}
	return "Missing required fields: " + strings.Join(labels, ", ")
}

func (e *ValidationError) Names() []string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = f.Name
	}
	return names
}

// Validate reports every required field that is empty after trimming, in
// the order they were declared.
func Validate(required []Field, fields map[string]string) error {
	var missing []Field
	for _, f := range required {
		if strings.TrimSpace(fields[f.Name]) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

type Trigger struct {
	required []Field
	send     SendFunc

	mu        sync.Mutex
	status    Status
	last      model.Result[Output]
	cancel    context.CancelFunc
	epoch     uint64
	onSuccess []func(Output)
}

func New(required []Field, send SendFunc) *Trigger {
	return &Trigger{required: required, send: send}
}

// OnSuccess registers a hook run after the trigger enters Succeeded.
func (t *Trigger) OnSuccess(fn func(Output)) {
	t.mu.Lock()
	t.onSuccess = append(t.onSuccess, fn)
	t.mu.Unlock()
}

func (t *Trigger) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Last returns the result of the most recent completed submission.
func (t *Trigger) Last() model.Result[Output] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Submit validates fields and, when every required field is present, sends
// exactly one generation request. It is rejected while another submission is
// in progress and after a success (until Reset).
func (t *Trigger) Submit(ctx context.Context, fields map[string]string) model.Result[Output] {
	t.mu.Lock()
	switch t.status {
	case Submitting:
		t.mu.Unlock()
		return model.Fail[Output](ErrBusy.Error())
	case Succeeded:
		t.mu.Unlock()
		return model.Fail[Output](ErrFinished.Error())
	}

	if err := Validate(t.required, fields); err != nil {
		t.mu.Unlock()
		res := model.Fail[Output](err.Error())
		var verr *ValidationError
		if errors.As(err, &verr) {
			res.MissingFields = verr.Names()
		}
		return res
	}

	trimmed := make(map[string]string, len(fields))
	for k, v := range fields {
		trimmed[k] = strings.TrimSpace(v)
	}

	ctx, cancel := context.WithCancel(ctx)
	t.status = Submitting
	t.epoch++
	epoch := t.epoch
	t.cancel = cancel
	t.mu.Unlock()

	res := t.send(ctx, trimmed)
	cancel()

	t.mu.Lock()
	if t.epoch != epoch {
		// Stop abandoned this submission; its result is discarded
		t.mu.Unlock()
		logger.Debugf("discarding result of stopped generation")
		return model.Fail[Output](StoppedMessage)
	}
	t.cancel = nil

	if !res.Success {
		if strings.TrimSpace(res.Message) == "" {
			res.Message = FallbackMessage
		}
		t.status = Failed
		t.last = res
		t.mu.Unlock()
		logger.Warnf("generation failed: %s", res.Message)
		return res
	}

	t.status = Succeeded
	t.last = res
	hooks := append([]func(Output){}, t.onSuccess...)
	t.mu.Unlock()

	for _, fn := range hooks {
		fn(res.Data)
	}
	return res
}

// Stop abandons an in-progress submission locally: the request context is
// cancelled, the eventual result is ignored and the trigger returns to Idle.
// The backend may still finish the work. Reports whether anything was
// stopped.
func (t *Trigger) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != Submitting {
		return false
	}
	t.epoch++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.status = Idle
	return true
}

// Reset returns a finished trigger to Idle so it can be submitted again,
// e.g. to regenerate. It does nothing while submitting.
func (t *Trigger) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == Submitting {
		return
	}
	t.status = Idle
	t.last = model.Result[Output]{}
}
