package storage

import (
	"nexus-assist/internal/model"
)

type Storage interface {
	// accounts
	CreateUser(user *model.UserRecord) error
	GetUser(userID string) (*model.UserRecord, error)
	GetUserByEmail(email string) (*model.UserRecord, error)
	UpdateUser(user *model.UserRecord) error

	// narrative drafts
	UpsertDraft(draft *model.Draft) error
	GetDraft(draftID string) (*model.Draft, error)
	ListDrafts(userID string) ([]*model.Draft, error)

	// statements of material facts
	CreateSMF(smf *model.SMF) error
	GetSMF(smfID string) (*model.SMF, error)
	ListSMFs(userID string) ([]*model.SMF, error)

	// notifications
	AddNotification(n *model.Notification) error
	ListNotifications(userID string, limit int) ([]*model.Notification, error)
	MarkNotificationRead(userID, notificationID string) error
	MarkAllNotificationsRead(userID string) (int, error)

	// nexus chat history
	AddChat(entry *model.ChatEntry) error
	ListChats(userID string) ([]*model.ChatEntry, error)
	DeleteChat(userID, chatID string) error

	Init() error
	Close() error
	Backup() error
}
