package service

import (
	"context"

	"nexus-assist/internal/config"
	"nexus-assist/internal/llm"
	"nexus-assist/internal/storage"
	"nexus-assist/pkg/logger"
)

// Services bundles everything the stub backend handlers call.
type Services struct {
	Storage       storage.Storage
	Auth          *AuthService
	Narratives    *NarrativeService
	SMFs          *SMFService
	Notifications *NotificationService
	Nexus         *NexusService
}

// NewStorage opens the configured storage, falling back to memory when the
// disk store cannot be initialised.
func NewStorage(cfg *config.Config) storage.Storage {
	var store storage.Storage

	if cfg.Storage.Type == "disk" {
		store = storage.NewDiskStorage(cfg.Storage.DataDir)
	} else {
		store = storage.NewMemoryStorage()
	}

	if err := store.Init(); err != nil {
		logger.Errorf("Failed to initialize storage: %v", err)
		store = storage.NewMemoryStorage()
		_ = store.Init()
	}
	return store
}

func New(store storage.Storage, writer llm.Writer, mailer Mailer, cfg *config.Config) *Services {
	notifications := NewNotificationService(store)
	return &Services{
		Storage:       store,
		Auth:          NewAuthService(store, mailer, cfg.Auth),
		Narratives:    NewNarrativeService(store, writer, notifications),
		SMFs:          NewSMFService(store, writer, notifications),
		Notifications: notifications,
		Nexus:         NewNexusService(store, writer),
	}
}

// NewFromConfig wires storage, the configured writer and a log mailer.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Services, error) {
	writer, err := llm.NewWriter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(NewStorage(cfg), writer, LogMailer{}, cfg), nil
}
