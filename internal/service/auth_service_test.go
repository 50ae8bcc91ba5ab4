package service

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"nexus-assist/internal/config"
	"nexus-assist/internal/model"
	"nexus-assist/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *captureMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, body)
	return nil
}

var (
	otpPattern   = regexp.MustCompile(`\b(\d{6})\b`)
	tokenPattern = regexp.MustCompile(`password: (\S+)$`)
)

func (m *captureMailer) last(t *testing.T, re *regexp.Regexp) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	match := re.FindStringSubmatch(m.sent[len(m.sent)-1])
	require.Len(t, match, 2)
	return match[1]
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Secret:   "test-secret",
		Issuer:   "test",
		TokenTTL: time.Hour,
		ResetTTL: time.Hour,
		OTPTTL:   10 * time.Minute,
	}
}

func newAuth(t *testing.T) (*AuthService, *captureMailer) {
	t.Helper()
	mailer := &captureMailer{}
	return NewAuthService(storage.NewMemoryStorage(), mailer, testAuthConfig()), mailer
}

const goodPassword = "Secret123"

func signupVerified(t *testing.T, s *AuthService, m *captureMailer, email string) *model.User {
	t.Helper()
	user, err := s.Signup(model.SignupRequest{FullName: "Jane Doe", Email: email, Password: goodPassword})
	require.NoError(t, err)
	require.NoError(t, s.VerifyOTP(model.VerifyOTPRequest{Email: email, OTP: m.last(t, otpPattern)}))
	return user
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("Ab1"))
	assert.Error(t, ValidatePassword("alllowercase1"))
	assert.Error(t, ValidatePassword("NoDigitsHere"))
	assert.NoError(t, ValidatePassword(goodPassword))
}

func TestSignupValidation(t *testing.T) {
	s, _ := newAuth(t)

	_, err := s.Signup(model.SignupRequest{FullName: "J", Email: "a@example.com", Password: goodPassword})
	assert.EqualError(t, err, "Full name must be at least 2 characters")

	_, err = s.Signup(model.SignupRequest{FullName: "Jane", Email: "not-an-email", Password: goodPassword})
	assert.EqualError(t, err, "Invalid email address")

	_, err = s.Signup(model.SignupRequest{FullName: "Jane", Email: "a@example.com", Password: "weak"})
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalid, e.Kind)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	s, _ := newAuth(t)

	_, err := s.Signup(model.SignupRequest{FullName: "Jane", Email: "a@example.com", Password: goodPassword})
	require.NoError(t, err)
	_, err = s.Signup(model.SignupRequest{FullName: "Jane", Email: "A@Example.com", Password: goodPassword})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRequiresVerification(t *testing.T) {
	s, m := newAuth(t)

	_, err := s.Signup(model.SignupRequest{FullName: "Jane", Email: "a@example.com", Password: goodPassword})
	require.NoError(t, err)

	_, err = s.Login(model.LoginRequest{Email: "a@example.com", Password: goodPassword})
	assert.ErrorIs(t, err, ErrNotVerified)

	assert.ErrorIs(t, s.VerifyOTP(model.VerifyOTPRequest{Email: "a@example.com", OTP: "000000x"}), ErrInvalidOTP)
	require.NoError(t, s.VerifyOTP(model.VerifyOTPRequest{Email: "a@example.com", OTP: m.last(t, otpPattern)}))

	resp, err := s.Login(model.LoginRequest{Email: "a@example.com", Password: goodPassword})
	require.NoError(t, err)
	assert.True(t, resp.User.Verified)

	userID, err := s.Authenticate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.UserID, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	s, m := newAuth(t)
	signupVerified(t, s, m, "a@example.com")

	_, err := s.Login(model.LoginRequest{Email: "a@example.com", Password: "Wrong1234"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(model.LoginRequest{Email: "nobody@example.com", Password: goodPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestOTPExpires(t *testing.T) {
	s, m := newAuth(t)
	now := time.Now()
	s.now = func() time.Time { return now }

	_, err := s.Signup(model.SignupRequest{FullName: "Jane", Email: "a@example.com", Password: goodPassword})
	require.NoError(t, err)
	code := m.last(t, otpPattern)

	now = now.Add(11 * time.Minute)
	assert.ErrorIs(t, s.VerifyOTP(model.VerifyOTPRequest{Email: "a@example.com", OTP: code}), ErrInvalidOTP)

	require.NoError(t, s.ResendOTP(model.ResendOTPRequest{Email: "a@example.com"}))
	assert.NoError(t, s.VerifyOTP(model.VerifyOTPRequest{Email: "a@example.com", OTP: m.last(t, otpPattern)}))

	assert.Error(t, s.ResendOTP(model.ResendOTPRequest{Email: "a@example.com"}), "already verified")
}

func TestAuthenticateRejectsResetToken(t *testing.T) {
	s, m := newAuth(t)
	signupVerified(t, s, m, "a@example.com")

	require.NoError(t, s.ForgotPassword(model.ForgotPasswordRequest{Email: "a@example.com"}))
	reset := m.last(t, tokenPattern)

	_, err := s.Authenticate(reset)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = s.Authenticate("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	s, m := newAuth(t)
	signupVerified(t, s, m, "a@example.com")

	require.NoError(t, s.ForgotPassword(model.ForgotPasswordRequest{Email: "a@example.com"}))
	token := m.last(t, tokenPattern)

	require.NoError(t, s.ResetPassword(model.ResetPasswordRequest{Token: token, NewPassword: "NewSecret456"}))
	assert.ErrorIs(t, s.ResetPassword(model.ResetPasswordRequest{Token: token, NewPassword: "Other789Pass"}), ErrInvalidToken)

	_, err := s.Login(model.LoginRequest{Email: "a@example.com", Password: "NewSecret456"})
	assert.NoError(t, err)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	s, m := newAuth(t)
	require.NoError(t, s.ForgotPassword(model.ForgotPasswordRequest{Email: "ghost@example.com"}))
	assert.Empty(t, m.sent)
}

func TestExpiredAccessToken(t *testing.T) {
	s, m := newAuth(t)
	signupVerified(t, s, m, "a@example.com")

	resp, err := s.Login(model.LoginRequest{Email: "a@example.com", Password: goodPassword})
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.Authenticate(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateUserAndChangePassword(t *testing.T) {
	s, m := newAuth(t)
	user := signupVerified(t, s, m, "a@example.com")

	updated, err := s.UpdateUser(user.UserID, model.UpdateUserRequest{PhoneNumber: "0400 000 000", DateOfBirth: "1990-04-01"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", updated.FullName)
	assert.Equal(t, "0400 000 000", updated.PhoneNumber)

	_, err = s.UpdateUser(user.UserID, model.UpdateUserRequest{DateOfBirth: "01/04/1990"})
	assert.Error(t, err)

	assert.ErrorIs(t, s.ChangePassword(user.UserID, model.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "Another123"}), ErrWrongPassword)
	require.NoError(t, s.ChangePassword(user.UserID, model.ChangePasswordRequest{CurrentPassword: goodPassword, NewPassword: "Another123"}))

	_, err = s.Login(model.LoginRequest{Email: "a@example.com", Password: "Another123"})
	assert.NoError(t, err)

	_, err = s.GetUser("missing")
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, e.Kind)
}
