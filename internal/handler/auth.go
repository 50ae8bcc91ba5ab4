package handler

import (
	"net/http"

	"nexus-assist/internal/model"
	"nexus-assist/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, keyMessage, "Full name, email and password are required")
		return
	}

	if _, err := h.auth.Signup(req); err != nil {
		respondError(c, keyMessage, err)
		return
	}
	message(c, http.StatusCreated, "Signup successful. Please check your email for the verification code.")
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req model.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, keyMessage, "Email and OTP are required")
		return
	}

	if err := h.auth.VerifyOTP(req); err != nil {
		respondError(c, keyMessage, err)
		return
	}
	message(c, http.StatusOK, "Email verified successfully")
}

func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req model.ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, keyMessage, "Email is required")
		return
	}

	if err := h.auth.ResendOTP(req); err != nil {
		respondError(c, keyMessage, err)
		return
	}
	message(c, http.StatusOK, "A new verification code has been sent")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, keyMessage, "Email and password are required")
		return
	}

	resp, err := h.auth.Login(req)
	if err != nil {
		respondError(c, keyMessage, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, keyMessage, "Email is required")
		return
	}

	if err := h.auth.ForgotPassword(req); err != nil {
		respondError(c, keyMessage, err)
		return
	}
	message(c, http.StatusOK, "If an account exists for this email, a reset link has been sent")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, keyMessage, "Token and new password are required")
		return
	}

	if err := h.auth.ResetPassword(req); err != nil {
		respondError(c, keyMessage, err)
		return
	}
	message(c, http.StatusOK, "Password reset successfully")
}

// sameUser rejects access to another user's account.
func sameUser(c *gin.Context) (string, bool) {
	userID := c.Param("id")
	if userID != currentUser(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{keyMessage: "You can only access your own account"})
		return "", false
	}
	return userID, true
}

func (h *AuthHandler) GetUser(c *gin.Context) {
	userID, ok := sameUser(c)
	if !ok {
		return
	}

	user, err := h.auth.GetUser(userID)
	if err != nil {
		respondError(c, keyMessage, err)
		return
	}
	c.JSON(http.StatusOK, model.UserResponse{User: *user})
}

func (h *AuthHandler) UpdateUser(c *gin.Context) {
	userID, ok := sameUser(c)
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, keyMessage, "Invalid request body")
		return
	}

	user, err := h.auth.UpdateUser(userID, req)
	if err != nil {
		respondError(c, keyMessage, err)
		return
	}
	c.JSON(http.StatusOK, model.UserResponse{User: *user, Message: "Profile updated successfully"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := sameUser(c)
	if !ok {
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, keyMessage, "Current and new password are required")
		return
	}

	if err := h.auth.ChangePassword(userID, req); err != nil {
		respondError(c, keyMessage, err)
		return
	}
	message(c, http.StatusOK, "Password changed successfully")
}
