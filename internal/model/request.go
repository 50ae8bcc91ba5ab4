package model

type SignupRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

type ResendOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type UpdateUserRequest struct {
	FullName    string `json:"fullName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// NarrativeFields is the incident note set shared by autosave and generation.
type NarrativeFields struct {
	UserID              string   `json:"userId"`
	DraftID             string   `json:"draftId,omitempty"`
	CallSign            string   `json:"callSign"`
	Date                string   `json:"date"`
	Time                string   `json:"time"`
	Location            string   `json:"location"`
	Victim              string   `json:"victim"`
	Suspect             string   `json:"suspect"`
	Witnesses           string   `json:"witnesses"`
	ReasonForAttendance string   `json:"reasonForAttendance"`
	Details             string   `json:"details"`
	Antecedents         string   `json:"antecedents"`
	Exhibits            []string `json:"exhibits"`
	Outcome             string   `json:"outcome"`
}

type GenerateOptions struct {
	VersionCount int `json:"versionCount"`
}

type GenerateNarrativeRequest struct {
	Input   NarrativeFields `json:"input"`
	Options GenerateOptions `json:"options"`
}

type GenerateSMFRequest struct {
	UserID      string `json:"userId"`
	NarrativeID string `json:"narrativeId,omitempty"`
	Narrative   string `json:"narrative"`
	OfficerName string `json:"officerName,omitempty"`
	ReferenceID string `json:"referenceId,omitempty"`
}

type ExportSMFRequest struct {
	SMFID   string `json:"smfId,omitempty"`
	Content string `json:"content,omitempty"`
	Format  string `json:"format"`
}

type NexusQueryRequest struct {
	Question string `json:"question" binding:"required"`
}
