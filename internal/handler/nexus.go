package handler

import (
	"net/http"

	"nexus-assist/internal/model"
	"nexus-assist/internal/service"

	"github.com/gin-gonic/gin"
)

type NexusHandler struct {
	nexus *service.NexusService
}

func NewNexusHandler(nexus *service.NexusService) *NexusHandler {
	return &NexusHandler{nexus: nexus}
}

func (h *NexusHandler) Query(c *gin.Context) {
	var req model.NexusQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, keyError, "Question is required")
		return
	}

	answer, err := h.nexus.Query(c.Request.Context(), currentUser(c), req.Question)
	if err != nil {
		respondError(c, keyError, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

func (h *NexusHandler) SuggestedPrompts(c *gin.Context) {
	c.JSON(http.StatusOK, model.PromptListResponse{Data: service.SuggestedPrompts})
}

func (h *NexusHandler) History(c *gin.Context) {
	entries, err := h.nexus.History(currentUser(c))
	if err != nil {
		respondError(c, keyError, err)
		return
	}
	resp := model.ChatListResponse{Data: make([]model.ChatEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Data = append(resp.Data, *e)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NexusHandler) DeleteChat(c *gin.Context) {
	if err := h.nexus.DeleteChat(currentUser(c), c.Param("id")); err != nil {
		respondError(c, keyError, err)
		return
	}
	message(c, http.StatusOK, "Chat deleted")
}
