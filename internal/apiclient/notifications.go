package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"nexus-assist/internal/model"
)

func (c *Client) Notifications(ctx context.Context, limit int) model.Result[[]model.Notification] {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	res := call[model.NotificationListResponse](ctx, c, request{
		method: http.MethodGet, path: "/notifications", query: query, asUser: true,
		success: "Notifications received", failure: "Failed to get notifications",
	})
	return unwrap(res, res.Data.Data)
}

func (c *Client) UnreadCount(ctx context.Context) model.Result[int] {
	res := call[model.CountResponse](ctx, c, request{
		method: http.MethodGet, path: "/notifications/unread-count", asUser: true,
		failure: "Failed to get unread count",
	})
	return unwrap(res, res.Data.Count)
}

func (c *Client) MarkRead(ctx context.Context, notificationID string) model.Result[model.MessageResponse] {
	return call[model.MessageResponse](ctx, c, request{
		method: http.MethodPut, path: "/notifications/" + pathEscape(notificationID) + "/read", asUser: true,
		success: "Notification marked as read", failure: "Failed to mark notification as read",
	})
}

func (c *Client) MarkAllRead(ctx context.Context) model.Result[model.MessageResponse] {
	return call[model.MessageResponse](ctx, c, request{
		method: http.MethodPut, path: "/notifications/read-all", asUser: true,
		success: "All notifications marked as read", failure: "Failed to mark all notifications as read",
	})
}
