package model

import "time"

// UserRecord is the stub backend's stored account.
type UserRecord struct {
	User
	PasswordHash string    `json:"passwordHash"`
	OTP          string    `json:"otp,omitempty"`
	OTPExpiresAt time.Time `json:"otpExpiresAt,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
