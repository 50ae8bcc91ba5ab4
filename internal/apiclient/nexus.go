package apiclient

import (
	"context"
	"net/http"

	"nexus-assist/internal/model"
)

// Query asks Nexus a legal question on behalf of the signed-in user.
func (c *Client) Query(ctx context.Context, question string) model.Result[model.NexusAnswer] {
	return call[model.NexusAnswer](ctx, c, request{
		method: http.MethodPost, path: "/nexus/query", asUser: true,
		body:    model.NexusQueryRequest{Question: question},
		success: "Answer received successfully", failure: "Failed to get answer",
	})
}

func (c *Client) SuggestedPrompts(ctx context.Context) model.Result[[]string] {
	res := call[model.PromptListResponse](ctx, c, request{
		method: http.MethodGet, path: "/nexus/suggested-prompts",
		success: "Suggested prompts received", failure: "Failed to get suggested prompts",
	})
	return unwrap(res, res.Data.Data)
}

func (c *Client) ChatHistory(ctx context.Context) model.Result[[]model.ChatEntry] {
	res := call[model.ChatListResponse](ctx, c, request{
		method: http.MethodGet, path: "/chat-history", asUser: true,
		success: "Chat history received", failure: "Failed to get chat history",
	})
	return unwrap(res, res.Data.Data)
}

func (c *Client) DeleteChat(ctx context.Context, chatID string) model.Result[model.MessageResponse] {
	return call[model.MessageResponse](ctx, c, request{
		method: http.MethodDelete, path: "/chat-history/" + pathEscape(chatID), asUser: true,
		success: "Chat deleted successfully", failure: "Failed to delete chat",
	})
}

// unwrap re-types a result around one of its payload's fields.
func unwrap[T, U any](res model.Result[T], data U) model.Result[U] {
	return model.Result[U]{
		Success:       res.Success,
		Message:       res.Message,
		Data:          data,
		Errors:        res.Errors,
		MissingFields: res.MissingFields,
	}
}
