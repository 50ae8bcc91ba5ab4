package handler

import (
	"net/http"
	"strconv"

	"nexus-assist/internal/model"
	"nexus-assist/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultNotificationLimit = 50

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *gin.Context) {
	limit := defaultNotificationLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, keyError, "limit must be a positive integer")
			return
		}
		limit = n
	}

	items, err := h.notifications.List(currentUser(c), limit)
	if err != nil {
		respondError(c, keyError, err)
		return
	}
	resp := model.NotificationListResponse{Data: make([]model.Notification, 0, len(items))}
	for _, n := range items {
		resp.Data = append(resp.Data, *n)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notifications.UnreadCount(currentUser(c))
	if err != nil {
		respondError(c, keyError, err)
		return
	}
	c.JSON(http.StatusOK, model.CountResponse{Count: count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notifications.MarkRead(currentUser(c), c.Param("id")); err != nil {
		respondError(c, keyError, err)
		return
	}
	message(c, http.StatusOK, "Notification marked as read")
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := h.notifications.MarkAllRead(currentUser(c))
	if err != nil {
		respondError(c, keyError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "count": count})
}
