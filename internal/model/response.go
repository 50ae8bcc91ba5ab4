package model

import "time"

type User struct {
	UserID      string `json:"userId"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Role        string `json:"role,omitempty"`
	Verified    bool   `json:"verified"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message,omitempty"`
}

type UserResponse struct {
	User    User   `json:"user"`
	Message string `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type DraftVersion struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Draft is a narrative draft as stored by the backend: the autosaved fields
// plus any generated versions.
type Draft struct {
	NarrativeFields
	Status    string         `json:"status"`
	Versions  []DraftVersion `json:"versions"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type DraftListResponse struct {
	Drafts []Draft `json:"drafts"`
}

type GenerateNarrativeResponse struct {
	DraftID  string         `json:"draftId"`
	Versions []DraftVersion `json:"versions"`
	Message  string         `json:"message,omitempty"`
}

type SMF struct {
	SMFID       string    `json:"smfId"`
	UserID      string    `json:"userId"`
	NarrativeID string    `json:"narrativeId,omitempty"`
	Narrative   string    `json:"narrative"`
	Content     string    `json:"content"`
	OfficerName string    `json:"officerName,omitempty"`
	ReferenceID string    `json:"referenceId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SMFListResponse struct {
	SMFs []SMF `json:"smfs"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationListResponse struct {
	Data []Notification `json:"data"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type NexusAnswer struct {
	Answer string `json:"answer"`
	ChatID string `json:"chatId,omitempty"`
}

type ChatEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChatListResponse struct {
	Data []ChatEntry `json:"data"`
}

type PromptListResponse struct {
	Data []string `json:"data"`
}
