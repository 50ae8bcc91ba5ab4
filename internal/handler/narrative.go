package handler

import (
	"net/http"
	"strconv"

	"nexus-assist/internal/model"
	"nexus-assist/internal/service"

	"github.com/gin-gonic/gin"
)

type NarrativeHandler struct {
	narratives *service.NarrativeService
}

func NewNarrativeHandler(narratives *service.NarrativeService) *NarrativeHandler {
	return &NarrativeHandler{narratives: narratives}
}

func (h *NarrativeHandler) UpsertDraft(c *gin.Context) {
	var fields model.NarrativeFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		badRequest(c, keyMessage, "Invalid request body")
		return
	}

	if _, err := h.narratives.UpsertDraft(currentUser(c), c.Param("id"), fields); err != nil {
		respondError(c, keyMessage, err)
		return
	}
	message(c, http.StatusOK, "Draft saved")
}

func (h *NarrativeHandler) GetDraft(c *gin.Context) {
	draft, err := h.narratives.GetDraft(currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, keyError, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *NarrativeHandler) ListDrafts(c *gin.Context) {
	userID := c.Param("id")
	if userID != currentUser(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{keyError: "You can only list your own drafts"})
		return
	}

	drafts, err := h.narratives.ListDrafts(userID)
	if err != nil {
		respondError(c, keyError, err)
		return
	}
	resp := model.DraftListResponse{Drafts: make([]model.Draft, 0, len(drafts))}
	for _, d := range drafts {
		resp.Drafts = append(resp.Drafts, *d)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NarrativeHandler) Generate(c *gin.Context) {
	var req model.GenerateNarrativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, keyMessage, "Invalid request body")
		return
	}

	resp, err := h.narratives.Generate(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, keyMessage, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NarrativeHandler) Export(c *gin.Context) {
	out, err := h.narratives.Export(currentUser(c), c.Param("id"), c.DefaultQuery("format", "pdf"))
	if err != nil {
		respondError(c, keyError, err)
		return
	}
	sendExport(c, out)
}

func sendExport(c *gin.Context, out model.Export) {
	c.Header("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(out.Body)))
	c.Data(http.StatusOK, out.ContentType, out.Body)
}
