package apiclient

import (
	"context"
	"net/http"

	"nexus-assist/internal/model"
	"nexus-assist/internal/session"
	"nexus-assist/pkg/logger"
)

func (c *Client) Signup(ctx context.Context, req model.SignupRequest) model.Result[model.MessageResponse] {
	return call[model.MessageResponse](ctx, c, request{
		method: http.MethodPost, path: "/auth/signup", body: req,
	})
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) model.Result[model.MessageResponse] {
	return call[model.MessageResponse](ctx, c, request{
		method: http.MethodPost, path: "/auth/verify-otp",
		body: model.VerifyOTPRequest{Email: email, OTP: otp},
	})
}

func (c *Client) ResendOTP(ctx context.Context, email string) model.Result[model.MessageResponse] {
	return call[model.MessageResponse](ctx, c, request{
		method: http.MethodPost, path: "/auth/resend-otp",
		body: model.ResendOTPRequest{Email: email},
	})
}

// Login authenticates and, on success, replaces the stored session.
func (c *Client) Login(ctx context.Context, email, password string) model.Result[model.LoginResponse] {
	res := call[model.LoginResponse](ctx, c, request{
		method: http.MethodPost, path: "/auth/login",
		body: model.LoginRequest{Email: email, Password: password},
	})
	if !res.Success {
		return res
	}
	if err := c.session.Set(session.Session{Token: res.Data.Token, User: res.Data.User}); err != nil {
		logger.Errorf("failed to persist session: %v", err)
		return model.Fail[model.LoginResponse]("Could not store session: " + err.Error())
	}
	return res
}

// Logout forgets the stored session. The backend keeps no server-side state
// for it.
func (c *Client) Logout() error {
	return c.session.Clear()
}

func (c *Client) ForgotPassword(ctx context.Context, email string) model.Result[model.MessageResponse] {
	return call[model.MessageResponse](ctx, c, request{
		method: http.MethodPost, path: "/auth/forgot-password",
		body: model.ForgotPasswordRequest{Email: email},
	})
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) model.Result[model.MessageResponse] {
	return call[model.MessageResponse](ctx, c, request{
		method: http.MethodPost, path: "/auth/reset-password",
		body: model.ResetPasswordRequest{Token: token, NewPassword: newPassword},
	})
}

func (c *Client) GetUser(ctx context.Context, userID string) model.Result[model.UserResponse] {
	return call[model.UserResponse](ctx, c, request{
		method: http.MethodGet, path: "/auth/user/" + pathEscape(userID),
	})
}

// UpdateUser saves profile changes for the signed-in user and replaces the
// stored user record with the server's copy.
func (c *Client) UpdateUser(ctx context.Context, req model.UpdateUserRequest) model.Result[model.UserResponse] {
	sess, ok := c.session.Get()
	if !ok {
		return model.Fail[model.UserResponse](session.ErrNotAuthenticated.Error())
	}
	res := call[model.UserResponse](ctx, c, request{
		method: http.MethodPut, path: "/auth/user/" + pathEscape(sess.User.UserID), body: req,
		success: "Profile updated successfully",
	})
	if !res.Success || res.Data.User.UserID == "" {
		return res
	}
	if err := c.session.Set(session.Session{Token: sess.Token, User: res.Data.User}); err != nil {
		logger.Errorf("failed to persist session: %v", err)
	}
	return res
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) model.Result[model.MessageResponse] {
	userID, err := c.session.UserID()
	if err != nil {
		return model.Fail[model.MessageResponse](err.Error())
	}
	return call[model.MessageResponse](ctx, c, request{
		method: http.MethodPost, path: "/auth/user/" + pathEscape(userID) + "/change-password",
		body: model.ChangePasswordRequest{CurrentPassword: current, NewPassword: next},
	})
}
