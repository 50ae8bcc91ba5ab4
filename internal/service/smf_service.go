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
)

type SMFService struct {
	storage       storage.Storage
	writer        llm.Writer
	notifications *NotificationService
	now           func() time.Time
}

func NewSMFService(store storage.Storage, writer llm.Writer, notifications *NotificationService) *SMFService {
	return &SMFService{storage: store, writer: writer, notifications: notifications, now: time.Now}
}

// Generate turns a narrative into a Statement of Material Facts. When
// narrativeId names a draft, its owner must match.
func (s *SMFService) Generate(ctx context.Context, userID string, req model.GenerateSMFRequest) (*model.SMF, error) {
	if req.UserID == "" {
		req.UserID = userID
	}
	var missing []string
	if strings.TrimSpace(req.UserID) == "" {
		missing = append(missing, "userId")
	}
	if strings.TrimSpace(req.Narrative) == "" {
		missing = append(missing, "narrative")
	}
	if len(missing) > 0 {
		return nil, &Error{Kind: KindInvalid, Message: "Missing required fields", MissingFields: missing}
	}
	if userID != "" && req.UserID != userID {
		return nil, forbidden("SMF belongs to another user")
	}

	if req.NarrativeID != "" {
		draft, err := s.storage.GetDraft(req.NarrativeID)
		if err != nil && !errors.Is(err, storage.ErrDraftNotFound) {
			return nil, err
		}
		if err == nil && draft.UserID != req.UserID {
			return nil, forbidden("Narrative belongs to another user")
		}
	}

	content, err := s.writer.SMF(ctx, req)
	if err != nil {
		logger.Errorf("SMF generation failed: %v", err)
		return nil, unavailable("Failed to generate SMF")
	}

	smf := &model.SMF{
		SMFID:       uuid.NewString(),
		UserID:      req.UserID,
		NarrativeID: req.NarrativeID,
		Narrative:   req.Narrative,
		Content:     content,
		OfficerName: req.OfficerName,
		ReferenceID: req.ReferenceID,
		CreatedAt:   s.now(),
	}
	if err := s.storage.CreateSMF(smf); err != nil {
		return nil, err
	}

	s.notifications.Notify(req.UserID, "SMF generated", "Your Statement of Material Facts is ready.", NotificationSMF)
	return smf, nil
}

func (s *SMFService) Get(userID, smfID string) (*model.SMF, error) {
	smf, err := s.storage.GetSMF(smfID)
	if err != nil {
		return nil, err
	}
	if userID != "" && smf.UserID != userID {
		return nil, forbidden("SMF belongs to another user")
	}
	return smf, nil
}

func (s *SMFService) List(userID string) ([]*model.SMF, error) {
	return s.storage.ListSMFs(userID)
}

// Export renders a stored SMF, or raw content when no id is given.
func (s *SMFService) Export(userID string, req model.ExportSMFRequest) (model.Export, error) {
	doc := export.Document{Title: "Statement of Material Facts", Body: req.Content}
	name := "smf"

	if req.SMFID != "" {
		smf, err := s.Get(userID, req.SMFID)
		if err != nil {
			return model.Export{}, err
		}
		doc.Body = smf.Content
		if smf.OfficerName != "" {
			doc.Meta = append(doc.Meta, "Officer: "+smf.OfficerName)
		}
		if smf.ReferenceID != "" {
			doc.Meta = append(doc.Meta, "Reference: "+smf.ReferenceID)
		}
		name = "smf-" + smf.SMFID
	}
	if strings.TrimSpace(doc.Body) == "" {
		return model.Export{}, invalid("Nothing to export")
	}

	out, err := export.Render(doc, req.Format, name)
	if errors.Is(err, export.ErrUnsupportedFormat) {
		return model.Export{}, invalid("Unsupported export format")
	}
	return out, err
}
