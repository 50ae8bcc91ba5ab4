package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"nexus-assist/internal/export"
	"nexus-assist/internal/llm"
	"nexus-assist/internal/model"
	"nexus-assist/internal/storage"
	"nexus-assist/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DraftStatusDraft     = "draft"
	DraftStatusGenerated = "generated"

	maxVersions = 5
)

// requiredNarrativeFields lists the generate input fields in form order.
var requiredNarrativeFields = []struct {
	name  string
	value func(model.NarrativeFields) string
}{
	{"userId", func(f model.NarrativeFields) string { return f.UserID }},
	{"callSign", func(f model.NarrativeFields) string { return f.CallSign }},
	{"date", func(f model.NarrativeFields) string { return f.Date }},
	{"time", func(f model.NarrativeFields) string { return f.Time }},
	{"location", func(f model.NarrativeFields) string { return f.Location }},
	{"victim", func(f model.NarrativeFields) string { return f.Victim }},
	{"suspect", func(f model.NarrativeFields) string { return f.Suspect }},
	{"witnesses", func(f model.NarrativeFields) string { return f.Witnesses }},
	{"reasonForAttendance", func(f model.NarrativeFields) string { return f.ReasonForAttendance }},
	{"details", func(f model.NarrativeFields) string { return f.Details }},
	{"exhibits", func(f model.NarrativeFields) string { return strings.Join(f.Exhibits, "") }},
	{"outcome", func(f model.NarrativeFields) string { return f.Outcome }},
}

// MissingNarrativeFields returns the names of blank required fields.
func MissingNarrativeFields(f model.NarrativeFields) []string {
	var missing []string
	for _, r := range requiredNarrativeFields {
		if strings.TrimSpace(r.value(f)) == "" {
			missing = append(missing, r.name)
		}
	}
	return missing
}

type NarrativeService struct {
	storage       storage.Storage
	writer        llm.Writer
	notifications *NotificationService
	now           func() time.Time
}

func NewNarrativeService(store storage.Storage, writer llm.Writer, notifications *NotificationService) *NarrativeService {
	return &NarrativeService{storage: store, writer: writer, notifications: notifications, now: time.Now}
}

// UpsertDraft stores the autosaved fields under draftID. Generated versions
// and the creation time of an existing draft are kept.
func (s *NarrativeService) UpsertDraft(userID, draftID string, fields model.NarrativeFields) (*model.Draft, error) {
	if strings.TrimSpace(draftID) == "" {
		return nil, invalid("Draft id is required")
	}
	if fields.UserID == "" {
		fields.UserID = userID
	}
	if fields.UserID == "" {
		return nil, invalid("userId is required")
	}
	if userID != "" && fields.UserID != userID {
		return nil, forbidden("Draft belongs to another user")
	}
	fields.DraftID = draftID

	now := s.now()
	draft := &model.Draft{
		NarrativeFields: fields,
		Status:          DraftStatusDraft,
		Versions:        []model.DraftVersion{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	existing, err := s.storage.GetDraft(draftID)
	switch {
	case err == nil:
		if existing.UserID != fields.UserID {
			return nil, forbidden("Draft belongs to another user")
		}
		draft.Status = existing.Status
		draft.Versions = existing.Versions
		draft.CreatedAt = existing.CreatedAt
	case !errors.Is(err, storage.ErrDraftNotFound):
		return nil, err
	}

	if err := s.storage.UpsertDraft(draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *NarrativeService) GetDraft(userID, draftID string) (*model.Draft, error) {
	draft, err := s.storage.GetDraft(draftID)
	if err != nil {
		return nil, err
	}
	if userID != "" && draft.UserID != userID {
		return nil, forbidden("Draft belongs to another user")
	}
	return draft, nil
}

func (s *NarrativeService) ListDrafts(userID string) ([]*model.Draft, error) {
	return s.storage.ListDrafts(userID)
}

// Generate writes the requested number of narrative versions, appends them to
// the draft and notifies the owner.
func (s *NarrativeService) Generate(ctx context.Context, userID string, req model.GenerateNarrativeRequest) (*model.GenerateNarrativeResponse, error) {
	input := req.Input
	if input.UserID == "" {
		input.UserID = userID
	}
	if missing := MissingNarrativeFields(input); len(missing) > 0 {
		return nil, &Error{Kind: KindInvalid, Message: "Missing required fields", MissingFields: missing}
	}
	if userID != "" && input.UserID != userID {
		return nil, forbidden("Draft belongs to another user")
	}

	count := req.Options.VersionCount
	if count < 1 {
		count = 1
	}
	if count > maxVersions {
		count = maxVersions
	}
	if input.DraftID == "" {
		input.DraftID = uuid.NewString()
	}

	draft, err := s.UpsertDraft(input.UserID, input.DraftID, input)
	if err != nil {
		return nil, err
	}

	texts, err := s.writer.Narratives(ctx, input, count)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"draft_id": input.DraftID,
			"error":    err,
		}).Error("Narrative generation failed")
		return nil, unavailable("Failed to generate narrative")
	}

	now := s.now()
	versions := make([]model.DraftVersion, 0, len(texts))
	for _, text := range texts {
		versions = append(versions, model.DraftVersion{ID: uuid.NewString(), Content: text, CreatedAt: now})
	}
	draft.Versions = append(draft.Versions, versions...)
	draft.Status = DraftStatusGenerated
	draft.UpdatedAt = now
	if err := s.storage.UpsertDraft(draft); err != nil {
		return nil, err
	}

	s.notifications.Notify(input.UserID, "Narrative generated",
		"Your narrative for "+input.Location+" is ready.", NotificationNarrative)

	return &model.GenerateNarrativeResponse{
		DraftID:  draft.DraftID,
		Versions: versions,
		Message:  "Narrative generated successfully",
	}, nil
}

// Export renders the latest generated version, or the notes when nothing
// has been generated yet.
func (s *NarrativeService) Export(userID, draftID, format string) (model.Export, error) {
	draft, err := s.GetDraft(userID, draftID)
	if err != nil {
		return model.Export{}, err
	}

	body := llm.FormatNotes(draft.NarrativeFields)
	if n := len(draft.Versions); n > 0 {
		body = draft.Versions[n-1].Content
	}

	doc := export.Document{
		Title: "Incident Narrative",
		Meta: []string{
			"Call sign: " + draft.CallSign,
			"Date: " + strings.TrimSpace(draft.Date+" "+draft.Time),
			"Location: " + draft.Location,
		},
		Body: body,
	}
	out, err := export.Render(doc, format, "narrative-"+draft.DraftID)
	if errors.Is(err, export.ErrUnsupportedFormat) {
		return model.Export{}, invalid("Unsupported export format")
	}
	return out, err
}
