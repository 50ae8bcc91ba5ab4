package service

import (
	"errors"

	"nexus-assist/internal/storage"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
)

// Error is an expected failure whose message is safe to show the user.
type Error struct {
	Kind          Kind
	Message       string
	MissingFields []string
}

func (e *Error) Error() string {
	return e.Message
}

func invalid(msg string) error      { return &Error{Kind: KindInvalid, Message: msg} }
func unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }
func forbidden(msg string) error    { return &Error{Kind: KindForbidden, Message: msg} }
func notFound(msg string) error     { return &Error{Kind: KindNotFound, Message: msg} }
func conflict(msg string) error     { return &Error{Kind: KindConflict, Message: msg} }
func unavailable(msg string) error  { return &Error{Kind: KindUnavailable, Message: msg} }

var (
	ErrInvalidCredentials = unauthorized("Invalid email or password")
	ErrNotVerified        = forbidden("Please verify your email before logging in")
	ErrInvalidOTP         = invalid("Invalid or expired OTP")
	ErrInvalidToken       = unauthorized("Invalid or expired token")
	ErrUserNotFound       = notFound("User not found")
	ErrEmailTaken         = conflict("An account with this email already exists")
	ErrWrongPassword      = invalid("Current password is incorrect")
)

// AsError returns the *Error in err's chain, translating storage sentinels.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		return ErrUserNotFound.(*Error), true
	case errors.Is(err, storage.ErrUserExists):
		return ErrEmailTaken.(*Error), true
	case errors.Is(err, storage.ErrDraftNotFound):
		return &Error{Kind: KindNotFound, Message: "Draft not found"}, true
	case errors.Is(err, storage.ErrDraftOwner):
		return &Error{Kind: KindForbidden, Message: "Draft belongs to another user"}, true
	case errors.Is(err, storage.ErrSMFNotFound):
		return &Error{Kind: KindNotFound, Message: "SMF not found"}, true
	case errors.Is(err, storage.ErrNotificationNotFound):
		return &Error{Kind: KindNotFound, Message: "Notification not found"}, true
	case errors.Is(err, storage.ErrChatNotFound):
		return &Error{Kind: KindNotFound, Message: "Chat not found"}, true
	case errors.Is(err, storage.ErrInvalidData):
		return &Error{Kind: KindInvalid, Message: "Invalid data"}, true
	}
	return nil, false
}
