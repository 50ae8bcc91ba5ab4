// Package smf turns a finished narrative into a Statement of Material Facts.
package smf

import (
	"context"
	"sync"

	"nexus-assist/internal/generation"
	"nexus-assist/internal/model"
)

const (
	FieldNarrative   = "narrative"
	FieldOfficerName = "officerName"
	FieldReferenceID = "referenceId"
	FieldNarrativeID = "narrativeId"
)

var required = []generation.Field{{Name: FieldNarrative, Label: "Narrative"}}

type API interface {
	GenerateSMF(ctx context.Context, req model.GenerateSMFRequest) model.Result[model.SMF]
	ExportSMF(ctx context.Context, req model.ExportSMFRequest) model.Result[model.Export]
}

// Builder submits one narrative for conversion and exports the result.
type Builder struct {
	api     API
	userID  string
	trigger *generation.Trigger

	mu sync.Mutex
	// staged holds statements returned by the backend until the trigger
	// accepts them; results of stopped submissions never leave it.
	staged map[string]model.SMF
	last   *model.SMF
}

func NewBuilder(api API, userID string) *Builder {
	b := &Builder{api: api, userID: userID, staged: make(map[string]model.SMF)}
	b.trigger = generation.New(required, b.send)
	b.trigger.OnSuccess(b.accept)
	return b
}

// accept promotes the staged statement of an accepted submission.
func (b *Builder) accept(out generation.Output) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if smf, ok := b.staged[out.ID]; ok {
		b.last = &smf
	}
	clear(b.staged)
}

func (b *Builder) send(ctx context.Context, fields map[string]string) model.Result[generation.Output] {
	res := b.api.GenerateSMF(ctx, model.GenerateSMFRequest{
		UserID:      b.userID,
		NarrativeID: fields[FieldNarrativeID],
		Narrative:   fields[FieldNarrative],
		OfficerName: fields[FieldOfficerName],
		ReferenceID: fields[FieldReferenceID],
	})
	out := model.Result[generation.Output]{
		Success:       res.Success,
		Message:       res.Message,
		Errors:        res.Errors,
		MissingFields: res.MissingFields,
	}
	if res.Success {
		smf := res.Data
		b.mu.Lock()
		b.staged[smf.SMFID] = smf
		b.mu.Unlock()
		out.Data = generation.Output{ID: smf.SMFID, Variants: []string{smf.Content}}
	}
	return out
}

func (b *Builder) Trigger() *generation.Trigger {
	return b.trigger
}

// Generate converts the narrative in fields. Only the narrative is required.
func (b *Builder) Generate(ctx context.Context, fields map[string]string) model.Result[model.SMF] {
	res := b.trigger.Submit(ctx, fields)
	if !res.Success {
		out := model.Fail[model.SMF](res.Message)
		out.MissingFields = res.MissingFields
		return out
	}
	smf, ok := b.Last()
	if !ok || smf.SMFID != res.Data.ID {
		return model.Fail[model.SMF](generation.FallbackMessage)
	}
	return model.OK(smf, res.Message)
}

// Regenerate clears a finished conversion so the narrative can be sent again.
func (b *Builder) Regenerate(ctx context.Context, fields map[string]string) model.Result[model.SMF] {
	b.trigger.Reset()
	return b.Generate(ctx, fields)
}

// Export downloads the last generated statement in format.
func (b *Builder) Export(ctx context.Context, format string) model.Result[model.Export] {
	smf, ok := b.Last()
	if !ok {
		return model.Fail[model.Export]("Nothing to export")
	}
	return b.api.ExportSMF(ctx, model.ExportSMFRequest{SMFID: smf.SMFID, Format: format})
}

// Last returns the most recent statement, if any.
func (b *Builder) Last() (model.SMF, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last == nil {
		return model.SMF{}, false
	}
	return *b.last, true
}
