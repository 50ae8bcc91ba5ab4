package handler

import (
	"net/http"

	"nexus-assist/internal/service"
	"nexus-assist/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Failure bodies carry the message under "message" on the auth, draft save
// and generate routes, and under "error" everywhere else.
const (
	keyMessage = "message"
	keyError   = "error"
)

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindInvalid:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindUnavailable:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, key string, err error) {
	e, ok := service.AsError(err)
	if !ok {
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{key: "Internal server error"})
		return
	}

	body := gin.H{key: e.Message}
	if len(e.MissingFields) > 0 {
		body["missingFields"] = e.MissingFields
	}
	c.AbortWithStatusJSON(statusFor(e.Kind), body)
}

func badRequest(c *gin.Context, key, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{key: msg})
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
