package narrative

import (
	"context"
	"time"

	"nexus-assist/internal/draft"
	"nexus-assist/internal/generation"
	"nexus-assist/internal/model"
)

// API is the part of the backend client a composer needs.
type API interface {
	UpsertDraft(ctx context.Context, draftID string, fields model.NarrativeFields) model.Result[model.MessageResponse]
	GenerateNarrative(ctx context.Context, input model.NarrativeFields, versionCount int) model.Result[model.GenerateNarrativeResponse]
}

type ComposerOptions struct {
	Interval     time.Duration
	VersionCount int
	// DraftID resumes an existing draft instead of starting a new one.
	DraftID string
}

// Composer owns one narrative from first keystroke to generated versions:
// the form values autosave through a draft manager and Generate submits
// them once through a generation trigger.
type Composer struct {
	api      API
	manager  *draft.Manager
	trigger  *generation.Trigger
	wizard   *Wizard
	versions int
}

func NewComposer(api API, userID string, opts ComposerOptions) (*Composer, error) {
	c := &Composer{api: api, versions: opts.VersionCount}
	if c.versions < 1 {
		c.versions = 1
	}

	var newID func() string
	if opts.DraftID != "" {
		id := opts.DraftID
		newID = func() string { return id }
	}

	m, err := draft.New(userID, draft.SaverFunc(c.save), draft.Options{
		Interval:   opts.Interval,
		Meaningful: Meaningful,
		NewID:      newID,
	})
	if err != nil {
		return nil, err
	}
	c.manager = m
	c.wizard = NewWizard(m)
	c.trigger = generation.New(Required(), c.generate)
	c.trigger.OnSuccess(func(generation.Output) {
		c.manager.Finalize()
	})
	return c, nil
}

func (c *Composer) save(ctx context.Context, draftID, ownerID string, fields map[string]string) error {
	return c.api.UpsertDraft(ctx, draftID, ToRequest(fields, ownerID, draftID)).Err()
}

func (c *Composer) generate(ctx context.Context, fields map[string]string) model.Result[generation.Output] {
	res := c.api.GenerateNarrative(ctx, ToRequest(fields, c.manager.Owner(), c.manager.ID()), c.versions)
	out := model.Result[generation.Output]{
		Success:       res.Success,
		Message:       res.Message,
		Errors:        res.Errors,
		MissingFields: res.MissingFields,
	}
	if res.Success {
		out.Data.ID = res.Data.DraftID
		for _, v := range res.Data.Versions {
			out.Data.Variants = append(out.Data.Variants, v.Content)
		}
	}
	return out
}

func (c *Composer) DraftID() string {
	return c.manager.ID()
}

func (c *Composer) Wizard() *Wizard {
	return c.wizard
}

func (c *Composer) Manager() *draft.Manager {
	return c.manager
}

func (c *Composer) Trigger() *generation.Trigger {
	return c.trigger
}

// Set records one field edit.
func (c *Composer) Set(field, value string) {
	c.manager.Record(field, value)
}

// Resume loads a stored draft's values without re-saving them.
func (c *Composer) Resume(d model.Draft) {
	c.manager.Restore(FromDraft(d))
}

// Start begins autosaving.
func (c *Composer) Start(ctx context.Context) {
	c.manager.Start(ctx)
}

// Close stops autosaving and flushes anything not yet saved.
func (c *Composer) Close(ctx context.Context) draft.Outcome {
	c.manager.Stop()
	return c.manager.Tick(ctx)
}

// Generate submits every form value. On success autosave ends for good.
func (c *Composer) Generate(ctx context.Context) model.Result[generation.Output] {
	return c.trigger.Submit(ctx, c.manager.Fields())
}

// Stop abandons a generation in progress.
func (c *Composer) Stop() bool {
	return c.trigger.Stop()
}
