package handler

import (
	"net/http"

	"nexus-assist/internal/model"
	"nexus-assist/internal/service"

	"github.com/gin-gonic/gin"
)

type SMFHandler struct {
	smfs *service.SMFService
}

func NewSMFHandler(smfs *service.SMFService) *SMFHandler {
	return &SMFHandler{smfs: smfs}
}

func (h *SMFHandler) Generate(c *gin.Context) {
	var req model.GenerateSMFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, keyError, "Invalid request body")
		return
	}

	smf, err := h.smfs.Generate(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, keyError, err)
		return
	}
	c.JSON(http.StatusOK, smf)
}

func (h *SMFHandler) Get(c *gin.Context) {
	smf, err := h.smfs.Get(currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, keyError, err)
		return
	}
	c.JSON(http.StatusOK, smf)
}

func (h *SMFHandler) List(c *gin.Context) {
	userID := c.Param("id")
	if userID != currentUser(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{keyError: "You can only list your own statements"})
		return
	}

	smfs, err := h.smfs.List(userID)
	if err != nil {
		respondError(c, keyError, err)
		return
	}
	resp := model.SMFListResponse{SMFs: make([]model.SMF, 0, len(smfs))}
	for _, s := range smfs {
		resp.SMFs = append(resp.SMFs, *s)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SMFHandler) Export(c *gin.Context) {
	var req model.ExportSMFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, keyError, "Invalid request body")
		return
	}

	out, err := h.smfs.Export(currentUser(c), req)
	if err != nil {
		respondError(c, keyError, err)
		return
	}
	sendExport(c, out)
}
