package service

import (
	"context"
	"errors"
	"testing"

	"nexus-assist/internal/config"
	"nexus-assist/internal/llm"
	"nexus-assist/internal/model"
	"nexus-assist/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{ *llm.TemplateWriter }

func newFailingWriter() failingWriter {
	return failingWriter{llm.NewTemplateWriter()}
}

func (failingWriter) Narratives(context.Context, model.NarrativeFields, int) ([]string, error) {
	return nil, errors.New("model offline")
}

func (failingWriter) Answer(context.Context, string) (string, error) {
	return "", errors.New("model offline")
}

func newServices(t *testing.T, writer llm.Writer) *Services {
	t.Helper()
	if writer == nil {
		writer = llm.NewTemplateWriter()
	}
	cfg := &config.Config{Auth: testAuthConfig()}
	return New(storage.NewMemoryStorage(), writer, &captureMailer{}, cfg)
}

func completeFields(userID string) model.NarrativeFields {
	return model.NarrativeFields{
		UserID:              userID,
		CallSign:            "Alpha 12",
		Date:                "2024-03-01",
		Time:                "21:40",
		Location:            "14 Main St",
		Victim:              "John Smith",
		Suspect:             "Unknown male",
		Witnesses:           "None",
		ReasonForAttendance: "Break and enter",
		Details:             "Rear door forced",
		Exhibits:            []string{"crowbar"},
		Outcome:             "Scene photographed",
	}
}

func TestMissingNarrativeFieldsInFormOrder(t *testing.T) {
	f := completeFields("u1")
	f.Location = "  "
	f.Exhibits = nil
	f.CallSign = ""

	assert.Equal(t, []string{"callSign", "location", "exhibits"}, MissingNarrativeFields(f))
	assert.Empty(t, MissingNarrativeFields(completeFields("u1")))
}

func TestUpsertDraftKeepsVersionsAndOwner(t *testing.T) {
	svc := newServices(t, nil)
	ctx := context.Background()

	resp, err := svc.Narratives.Generate(ctx, "u1", model.GenerateNarrativeRequest{Input: completeFields("u1")})
	require.NoError(t, err)
	require.Len(t, resp.Versions, 1)

	fields := completeFields("u1")
	fields.Details = "edited after generation"
	draft, err := svc.Narratives.UpsertDraft("u1", resp.DraftID, fields)
	require.NoError(t, err)
	assert.Equal(t, DraftStatusGenerated, draft.Status)
	assert.Len(t, draft.Versions, 1)
	assert.Equal(t, "edited after generation", draft.Details)

	_, err = svc.Narratives.UpsertDraft("u2", resp.DraftID, completeFields("u2"))
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindForbidden, e.Kind)

	_, err = svc.Narratives.GetDraft("u2", resp.DraftID)
	assert.Error(t, err)
}

func TestUpsertDraftRequiresOwner(t *testing.T) {
	svc := newServices(t, nil)

	_, err := svc.Narratives.UpsertDraft("", "d1", model.NarrativeFields{Location: "x"})
	assert.EqualError(t, err, "userId is required")

	draft, err := svc.Narratives.UpsertDraft("u1", "d1", model.NarrativeFields{Location: "x"})
	require.NoError(t, err)
	assert.Equal(t, "u1", draft.UserID)
	assert.Equal(t, DraftStatusDraft, draft.Status)
}

func TestGenerateReportsMissingFields(t *testing.T) {
	svc := newServices(t, nil)

	f := completeFields("u1")
	f.Victim = ""
	f.Outcome = " "
	_, err := svc.Narratives.Generate(context.Background(), "u1", model.GenerateNarrativeRequest{Input: f})

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalid, e.Kind)
	assert.Equal(t, []string{"victim", "outcome"}, e.MissingFields)
}

func TestGenerateVersionsAndNotification(t *testing.T) {
	svc := newServices(t, nil)
	ctx := context.Background()

	f := completeFields("u1")
	f.DraftID = "draft-1"
	resp, err := svc.Narratives.Generate(ctx, "u1", model.GenerateNarrativeRequest{
		Input:   f,
		Options: model.GenerateOptions{VersionCount: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, "draft-1", resp.DraftID)
	assert.Len(t, resp.Versions, maxVersions)

	drafts, err := svc.Narratives.ListDrafts("u1")
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, DraftStatusGenerated, drafts[0].Status)

	count, err := svc.Notifications.UnreadCount("u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGenerateWriterFailure(t *testing.T) {
	svc := newServices(t, newFailingWriter())

	_, err := svc.Narratives.Generate(context.Background(), "u1", model.GenerateNarrativeRequest{Input: completeFields("u1")})
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindUnavailable, e.Kind)
	assert.Equal(t, "Failed to generate narrative", e.Message)

	count, err := svc.Notifications.UnreadCount("u1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNarrativeExport(t *testing.T) {
	svc := newServices(t, nil)

	_, err := svc.Narratives.UpsertDraft("u1", "d1", completeFields("u1"))
	require.NoError(t, err)

	out, err := svc.Narratives.Export("u1", "d1", "txt")
	require.NoError(t, err)
	assert.Equal(t, "narrative-d1.txt", out.Filename)
	assert.Contains(t, string(out.Body), "Location: 14 Main St")

	_, err = svc.Narratives.Export("u1", "d1", "doc")
	assert.EqualError(t, err, "Unsupported export format")

	_, err = svc.Narratives.Export("u1", "missing", "pdf")
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, e.Kind)
}
