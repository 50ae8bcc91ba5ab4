package llm

import (
	"context"
	"fmt"

	"nexus-assist/internal/config"
	"nexus-assist/internal/utils"
	"nexus-assist/pkg/logger"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/sirupsen/logrus"
)

const (
	ProviderTemplate = "template"
	ProviderDoubao   = "doubao"
	ProviderOpenAI   = "openai"
	ProviderQwen     = "qwen"
)

// NewChatModel builds the chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg *config.Config) (einoModel.BaseChatModel, error) {
	switch cfg.Model.Provider {
	case ProviderDoubao:
		return createDoubaoModel(ctx, cfg.Doubao)
	case ProviderOpenAI:
		return createOpenAIModel(ctx, cfg.OpenAI)
	case ProviderQwen:
		return createQwenModel(ctx, cfg.Qwen)
	default:
		return nil, fmt.Errorf("unsupported model provider: %s", cfg.Model.Provider)
	}
}

func maskKey(key string) string {
	if len(key) > 6 {
		return key[:6] + "..."
	}
	if key == "" {
		return "(empty)"
	}
	return "***"
}

func createDoubaoModel(ctx context.Context, cfg config.DoubaoConfig) (einoModel.BaseChatModel, error) {
	logger.WithFields(logrus.Fields{
		"provider": ProviderDoubao,
		"model":    cfg.Model,
		"api_key":  maskKey(cfg.APIKey),
	}).Info("Creating chat model")

	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		CustomHeader: map[string]string{
			"X-Ark-Thinking-Mode": "disable",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create doubao model: %w", err)
	}
	return chatModel, nil
}

func createOpenAIModel(ctx context.Context, cfg config.OpenAIConfig) (einoModel.BaseChatModel, error) {
	logger.WithFields(logrus.Fields{
		"provider": ProviderOpenAI,
		"model":    cfg.Model,
		"base_url": cfg.BaseURL,
	}).Info("Creating chat model")

	return newOpenAIChatModel(ctx, cfg)
}

func createQwenModel(ctx context.Context, cfg config.QwenConfig) (einoModel.BaseChatModel, error) {
	logger.WithFields(logrus.Fields{
		"provider": ProviderQwen,
		"model":    cfg.Model,
		"base_url": cfg.BaseURL,
		"api_key":  maskKey(cfg.APIKey),
		"debug":    cfg.DebugRequest,
	}).Info("Creating chat model")

	chatModel, err := qwen.NewChatModel(ctx, &qwen.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   &cfg.MaxTokens,
		Temperature: &cfg.Temperature,
		TopP:        &cfg.TopP,
		Timeout:     cfg.Timeout,
		HTTPClient:  utils.NewDebugHTTPClient(cfg.Timeout, cfg.DebugRequest),
	})
	if err != nil {
		return nil, fmt.Errorf("create qwen model: %w", err)
	}
	return chatModel, nil
}
