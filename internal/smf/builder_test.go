package smf

import (
	"context"
	"sync"
	"testing"

	"nexus-assist/internal/generation"
	"nexus-assist/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	requests []model.GenerateSMFRequest
	exports  []model.ExportSMFRequest
	fail     string
}

func (f *fakeAPI) GenerateSMF(ctx context.Context, req model.GenerateSMFRequest) model.Result[model.SMF] {
	f.requests = append(f.requests, req)
	if f.fail != "" {
		return model.Fail[model.SMF](f.fail)
	}
	return model.OK(model.SMF{
		SMFID:     "smf-" + string(rune('0'+len(f.requests))),
		UserID:    req.UserID,
		Narrative: req.Narrative,
		Content:   "STATEMENT OF MATERIAL FACTS\n\n1. " + req.Narrative,
	}, "SMF generated successfully")
}

func (f *fakeAPI) ExportSMF(ctx context.Context, req model.ExportSMFRequest) model.Result[model.Export] {
	f.exports = append(f.exports, req)
	return model.OK(model.Export{Filename: req.SMFID + "." + req.Format}, "SMF exported")
}

func TestGenerateRequiresNarrative(t *testing.T) {
	api := &fakeAPI{}
	b := NewBuilder(api, "u1")

	res := b.Generate(context.Background(), map[string]string{FieldNarrative: "   ", FieldOfficerName: "Sgt Lee"})
	assert.False(t, res.Success)
	assert.Equal(t, []string{FieldNarrative}, res.MissingFields)
	assert.Empty(t, api.requests)
	assert.Equal(t, generation.Idle, b.Trigger().Status())
}

func TestGenerateAndExport(t *testing.T) {
	api := &fakeAPI{}
	b := NewBuilder(api, "u1")
	ctx := context.Background()

	nothing := b.Export(ctx, "pdf")
	assert.False(t, nothing.Success)

	res := b.Generate(ctx, map[string]string{
		FieldNarrative:   "  Police attended.  ",
		FieldOfficerName: "Sgt Lee",
	})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "smf-1", res.Data.SMFID)
	require.Len(t, api.requests, 1)
	assert.Equal(t, "Police attended.", api.requests[0].Narrative)
	assert.Equal(t, "u1", api.requests[0].UserID)
	assert.Equal(t, "Sgt Lee", api.requests[0].OfficerName)

	again := b.Generate(ctx, map[string]string{FieldNarrative: "Police attended."})
	assert.False(t, again.Success)
	assert.Equal(t, generation.ErrFinished.Error(), again.Message)

	out := b.Export(ctx, "html")
	require.True(t, out.Success)
	assert.Equal(t, "smf-1.html", out.Data.Filename)

	redo := b.Regenerate(ctx, map[string]string{FieldNarrative: "Police attended again."})
	require.True(t, redo.Success)
	assert.Equal(t, "smf-2", redo.Data.SMFID)
	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, "smf-2", last.SMFID)
}

func TestGenerateFailure(t *testing.T) {
	api := &fakeAPI{fail: "Failed to generate SMF"}
	b := NewBuilder(api, "u1")

	res := b.Generate(context.Background(), map[string]string{FieldNarrative: "Police attended."})
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to generate SMF", res.Message)
	assert.Equal(t, generation.Failed, b.Trigger().Status())
	_, ok := b.Last()
	assert.False(t, ok)
}

// slowFirstAPI holds the first conversion until release is closed.
type slowFirstAPI struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
	exports []model.ExportSMFRequest
}

func (a *slowFirstAPI) GenerateSMF(ctx context.Context, req model.GenerateSMFRequest) model.Result[model.SMF] {
	a.mu.Lock()
	a.calls++
	first := a.calls == 1
	a.mu.Unlock()

	if first {
		close(a.started)
		<-a.release
		return model.OK(model.SMF{SMFID: "stale", Content: "old"}, "SMF generated successfully")
	}
	return model.OK(model.SMF{SMFID: "fresh", Content: "new"}, "SMF generated successfully")
}

func (a *slowFirstAPI) ExportSMF(ctx context.Context, req model.ExportSMFRequest) model.Result[model.Export] {
	a.mu.Lock()
	a.exports = append(a.exports, req)
	a.mu.Unlock()
	return model.OK(model.Export{Filename: req.SMFID + "." + req.Format}, "SMF exported")
}

func TestStoppedConversionNeverBecomesLast(t *testing.T) {
	api := &slowFirstAPI{started: make(chan struct{}), release: make(chan struct{})}
	b := NewBuilder(api, "u1")
	ctx := context.Background()
	fields := map[string]string{FieldNarrative: "Police attended."}

	firstDone := make(chan model.Result[model.SMF], 1)
	go func() { firstDone <- b.Generate(ctx, fields) }()

	<-api.started
	require.True(t, b.Trigger().Stop())

	second := b.Generate(ctx, fields)
	require.True(t, second.Success, second.Message)
	assert.Equal(t, "fresh", second.Data.SMFID)

	close(api.release)
	first := <-firstDone
	assert.False(t, first.Success)
	assert.Equal(t, generation.StoppedMessage, first.Message)

	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, "fresh", last.SMFID)

	out := b.Export(ctx, "txt")
	require.True(t, out.Success)
	assert.Equal(t, "fresh.txt", out.Data.Filename)
	require.Len(t, api.exports, 1)
	assert.Equal(t, "fresh", api.exports[0].SMFID)
}

func TestStoppedConversionLeavesNothingToExport(t *testing.T) {
	api := &slowFirstAPI{started: make(chan struct{}), release: make(chan struct{})}
	b := NewBuilder(api, "u1")
	ctx := context.Background()

	done := make(chan model.Result[model.SMF], 1)
	go func() { done <- b.Generate(ctx, map[string]string{FieldNarrative: "Police attended."}) }()

	<-api.started
	require.True(t, b.Trigger().Stop())
	close(api.release)
	<-done

	_, ok := b.Last()
	assert.False(t, ok)
	assert.False(t, b.Export(ctx, "pdf").Success)
}
