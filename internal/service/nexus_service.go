package service

import (
	"context"
	"strings"
	"time"

	"nexus-assist/internal/llm"
	"nexus-assist/internal/model"
	"nexus-assist/internal/storage"
	"nexus-assist/pkg/logger"

	"github.com/google/uuid"
)

// SuggestedPrompts are offered on an empty chat.
var SuggestedPrompts = []string{
	"When can I search a vehicle?",
	"Explain Section 61 Criminal Code.",
	"Read someone their rights quickly.",
	"Do I need a warrant here?",
	"What's the penalty for trespass?",
	"When can I issue a caution?",
}

const maxQuestionLength = 4000

type NexusService struct {
	storage storage.Storage
	writer  llm.Writer
	now     func() time.Time
}

func NewNexusService(store storage.Storage, writer llm.Writer) *NexusService {
	return &NexusService{storage: store, writer: writer, now: time.Now}
}

// Query answers a question and records it in the user's chat history.
func (s *NexusService) Query(ctx context.Context, userID, question string) (*model.NexusAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, invalid("Question is required")
	}
	if len(question) > maxQuestionLength {
		return nil, invalid("Question is too long")
	}

	answer, err := s.writer.Answer(ctx, question)
	if err != nil {
		logger.Errorf("Nexus answer failed: %v", err)
		return nil, unavailable("Failed to get answer")
	}

	entry := &model.ChatEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Question:  question,
		Answer:    answer,
		CreatedAt: s.now(),
	}
	if err := s.storage.AddChat(entry); err != nil {
		return nil, err
	}
	return &model.NexusAnswer{Answer: answer, ChatID: entry.ID}, nil
}

func (s *NexusService) History(userID string) ([]*model.ChatEntry, error) {
	return s.storage.ListChats(userID)
}

func (s *NexusService) DeleteChat(userID, chatID string) error {
	return s.storage.DeleteChat(userID, chatID)
}
