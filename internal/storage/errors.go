package storage

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrDraftNotFound        = errors.New("draft not found")
	ErrDraftOwner           = errors.New("draft belongs to another user")
	ErrSMFNotFound          = errors.New("smf not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrChatNotFound         = errors.New("chat not found")
	ErrInvalidData          = errors.New("invalid data")
	ErrStorageInit          = errors.New("storage initialization failed")
	ErrFileOperation        = errors.New("file operation failed")
)
