package service

import (
	"time"

	"nexus-assist/internal/model"
	"nexus-assist/internal/storage"
	"nexus-assist/pkg/logger"

	"github.com/google/uuid"
)

const (
	NotificationNarrative = "narrative"
	NotificationSMF       = "smf"
	NotificationAccount   = "account"
)

type NotificationService struct {
	storage storage.Storage
	now     func() time.Time
}

func NewNotificationService(store storage.Storage) *NotificationService {
	return &NotificationService{storage: store, now: time.Now}
}

// Notify records a notification. Failures are logged; they never fail the
// operation that triggered them.
func (s *NotificationService) Notify(userID, title, message, kind string) {
	n := &model.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		CreatedAt: s.now(),
	}
	if err := s.storage.AddNotification(n); err != nil {
		logger.Errorf("Failed to add notification for %s: %v", userID, err)
	}
}

func (s *NotificationService) List(userID string, limit int) ([]*model.Notification, error) {
	return s.storage.ListNotifications(userID, limit)
}

func (s *NotificationService) UnreadCount(userID string) (int, error) {
	list, err := s.storage.ListNotifications(userID, 0)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *NotificationService) MarkRead(userID, id string) error {
	return s.storage.MarkNotificationRead(userID, id)
}

func (s *NotificationService) MarkAllRead(userID string) (int, error) {
	return s.storage.MarkAllNotificationsRead(userID)
}
