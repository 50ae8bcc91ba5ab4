package handler

import (
	"net/http"
	"time"

	"nexus-assist/internal/config"
	"nexus-assist/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every backend route the client calls under /api.
func NewRouter(cfg *config.Config, svcs *service.Services) *gin.Engine {
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	authH := NewAuthHandler(svcs.Auth)
	narrativeH := NewNarrativeHandler(svcs.Narratives)
	smfH := NewSMFHandler(svcs.SMFs)
	nexusH := NewNexusHandler(svcs.Nexus)
	notificationH := NewNotificationHandler(svcs.Notifications)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authH.Signup)
			auth.POST("/verify-otp", authH.VerifyOTP)
			auth.POST("/resend-otp", authH.ResendOTP)
			auth.POST("/login", authH.Login)
			auth.POST("/forgot-password", authH.ForgotPassword)
			auth.POST("/reset-password", authH.ResetPassword)

			user := auth.Group("/user/:id", RequireToken(svcs.Auth, keyMessage))
			user.GET("", authH.GetUser)
			user.PUT("", authH.UpdateUser)
			user.POST("/change-password", authH.ChangePassword)
		}

		narrative := api.Group("/narrative")
		{
			narrative.PUT("/drafts/:id", RequireToken(svcs.Auth, keyMessage), narrativeH.UpsertDraft)
			narrative.POST("/generate", RequireToken(svcs.Auth, keyMessage), narrativeH.Generate)
			narrative.GET("/drafts/:id", RequireToken(svcs.Auth, keyError), narrativeH.GetDraft)
			narrative.GET("/user/:id/drafts", RequireToken(svcs.Auth, keyError), narrativeH.ListDrafts)
			narrative.GET("/:id/export", RequireToken(svcs.Auth, keyError), narrativeH.Export)
		}

		smf := api.Group("/smf", RequireToken(svcs.Auth, keyError))
		{
			smf.POST("/generate", smfH.Generate)
			smf.POST("/export", smfH.Export)
			smf.GET("/:id", smfH.Get)
			smf.GET("/user/:id/smfs", smfH.List)
		}

		nexus := api.Group("/nexus")
		{
			nexus.POST("/query", RequireUser(svcs.Auth, keyError), nexusH.Query)
			nexus.GET("/suggested-prompts", nexusH.SuggestedPrompts)
		}

		history := api.Group("/chat-history", RequireUser(svcs.Auth, keyError))
		{
			history.GET("", nexusH.History)
			history.DELETE("/:id", nexusH.DeleteChat)
		}

		notifications := api.Group("/notifications", RequireUser(svcs.Auth, keyError))
		{
			notifications.GET("", notificationH.List)
			notifications.GET("/unread-count", notificationH.UnreadCount)
			notifications.PUT("/read-all", notificationH.MarkAllRead)
			notifications.PUT("/:id/read", notificationH.MarkRead)
		}
	}

	return router
}
