package handler

import (
	"net/http"
	"strings"

	"nexus-assist/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "userID"
	userIDHeader = "x-user-id"
)

// RequireToken resolves the caller from the bearer token.
func RequireToken(auth *service.AuthService, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{key: "Authentication required"})
			return
		}

		userID, err := auth.Authenticate(token)
		if err != nil {
			respondError(c, key, err)
			return
		}
		if header := strings.TrimSpace(c.GetHeader(userIDHeader)); header != "" && header != userID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{key: "User mismatch"})
			return
		}

		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// RequireUser resolves the caller from the x-user-id header. A bearer token,
// when sent, must belong to the same user.
func RequireUser(auth *service.AuthService, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(userIDHeader))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{key: "User not authenticated"})
			return
		}

		if token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found {
			tokenUser, err := auth.Authenticate(token)
			if err != nil {
				respondError(c, key, err)
				return
			}
			if tokenUser != userID {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{key: "User mismatch"})
				return
			}
		}

		c.Set(ctxUserID, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
