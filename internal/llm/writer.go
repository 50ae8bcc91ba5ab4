package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"nexus-assist/internal/config"
	"nexus-assist/internal/model"
	"nexus-assist/pkg/logger"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// Writer produces the documents and answers the backend serves.
type Writer interface {
	Narratives(ctx context.Context, fields model.NarrativeFields, count int) ([]string, error)
	SMF(ctx context.Context, req model.GenerateSMFRequest) (string, error)
	Answer(ctx context.Context, question string) (string, error)
}

// ErrEmptyOutput is returned when a model answers with no text.
var ErrEmptyOutput = errors.New("model returned empty output")

// NewWriter returns the template writer for the template provider and a
// model-backed writer otherwise.
func NewWriter(ctx context.Context, cfg *config.Config) (Writer, error) {
	if cfg.Model.Provider == "" || cfg.Model.Provider == ProviderTemplate {
		logger.Info("Using offline template writer")
		return NewTemplateWriter(), nil
	}

	chatModel, err := NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewChatWriter(ctx, chatModel, PromptsFromConfig(cfg.Prompts))
}

type runnable = compose.Runnable[map[string]any, *schema.Message]

// ChatWriter runs one prompt → model chain per document kind.
type ChatWriter struct {
	narrative runnable
	smf       runnable
	nexus     runnable
}

func NewChatWriter(ctx context.Context, chatModel einoModel.BaseChatModel, prompts Prompts) (*ChatWriter, error) {
	build := func(tpl prompt.ChatTemplate) (runnable, error) {
		chain := compose.NewChain[map[string]any, *schema.Message]()
		chain.AppendChatTemplate(tpl).AppendChatModel(chatModel)
		return chain.Compile(ctx)
	}

	w := &ChatWriter{}
	var err error
	if w.narrative, err = build(newNarrativePrompt(prompts.Narrative)); err != nil {
		return nil, fmt.Errorf("compile narrative chain: %w", err)
	}
	if w.smf, err = build(newSMFPrompt(prompts.SMF)); err != nil {
		return nil, fmt.Errorf("compile smf chain: %w", err)
	}
	if w.nexus, err = build(newNexusPrompt(prompts.Nexus)); err != nil {
		return nil, fmt.Errorf("compile nexus chain: %w", err)
	}
	return w, nil
}

// Narratives asks the model once per requested version.
func (w *ChatWriter) Narratives(ctx context.Context, fields model.NarrativeFields, count int) ([]string, error) {
	if count < 1 {
		count = 1
	}
	notes := FormatNotes(fields)

	out := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		msg, err := w.narrative.Invoke(ctx, map[string]any{
			"notes":   notes,
			"version": i,
			"total":   count,
		})
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(msg.Content)
		if text == "" {
			return nil, ErrEmptyOutput
		}
		out = append(out, text)
	}
	return out, nil
}

func (w *ChatWriter) SMF(ctx context.Context, req model.GenerateSMFRequest) (string, error) {
	msg, err := w.smf.Invoke(ctx, map[string]any{
		"officer":   orDash(req.OfficerName),
		"reference": orDash(req.ReferenceID),
		"narrative": req.Narrative,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}

// Answer streams the reply and joins the chunks.
func (w *ChatWriter) Answer(ctx context.Context, question string) (string, error) {
	stream, err := w.nexus.Stream(ctx, map[string]any{"question": question})
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var chunks []*schema.Message
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		chunks = append(chunks, chunk)
	}
	if len(chunks) == 0 {
		return "", ErrEmptyOutput
	}

	msg, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
