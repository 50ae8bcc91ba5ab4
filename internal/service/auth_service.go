package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"nexus-assist/internal/config"
	"nexus-assist/internal/model"
	"nexus-assist/internal/storage"
	"nexus-assist/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	purposeAccess = "access"
	purposeReset  = "reset"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
	// Version pins a reset token to the password it replaces.
	Version int64 `json:"ver,omitempty"`
}

type AuthService struct {
	storage storage.Storage
	mailer  Mailer
	config  config.AuthConfig
	now     func() time.Time
}

func NewAuthService(store storage.Storage, mailer Mailer, cfg config.AuthConfig) *AuthService {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &AuthService{storage: store, mailer: mailer, config: cfg, now: time.Now}
}

// ValidatePassword enforces at least 8 characters with upper case, lower
// case and a digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return invalid("Password must be at least 8 characters")
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return invalid("Password must contain at least one uppercase letter, one lowercase letter, and one number")
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("Invalid email address")
	}
	return nil
}

func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *AuthService) Signup(req model.SignupRequest) (*model.User, error) {
	name := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if len([]rune(name)) < 2 {
		return nil, invalid("Full name must be at least 2 characters")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	record := &model.UserRecord{
		User: model.User{
			UserID:   uuid.NewString(),
			FullName: name,
			Email:    email,
		},
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.issueOTP(record); err != nil {
		return nil, err
	}

	if err := s.storage.CreateUser(record); err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	if err := s.sendOTP(record); err != nil {
		return nil, err
	}

	logger.Infof("User signed up: %s", record.UserID)
	user := record.User
	return &user, nil
}

func (s *AuthService) issueOTP(record *model.UserRecord) error {
	code, err := newOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	record.OTP = code
	record.OTPExpiresAt = s.now().Add(s.config.OTPTTL)
	return nil
}

func (s *AuthService) sendOTP(record *model.UserRecord) error {
	body := fmt.Sprintf("Your Nexus verification code is %s. It expires in %s.", record.OTP, s.config.OTPTTL)
	if err := s.mailer.Send(record.Email, "Verify your email", body); err != nil {
		return unavailable("Failed to send verification email")
	}
	return nil
}

func (s *AuthService) VerifyOTP(req model.VerifyOTPRequest) error {
	record, err := s.storage.GetUserByEmail(req.Email)
	if err != nil {
		return ErrInvalidOTP
	}
	if record.Verified {
		return nil
	}
	if record.OTP == "" || record.OTP != strings.TrimSpace(req.OTP) || s.now().After(record.OTPExpiresAt) {
		return ErrInvalidOTP
	}

	record.Verified = true
	record.OTP = ""
	record.OTPExpiresAt = time.Time{}
	record.UpdatedAt = s.now()
	return s.storage.UpdateUser(record)
}

func (s *AuthService) ResendOTP(req model.ResendOTPRequest) error {
	record, err := s.storage.GetUserByEmail(req.Email)
	if err != nil {
		return ErrUserNotFound
	}
	if record.Verified {
		return invalid("Email is already verified")
	}
	if err := s.issueOTP(record); err != nil {
		return err
	}
	record.UpdatedAt = s.now()
	if err := s.storage.UpdateUser(record); err != nil {
		return err
	}
	return s.sendOTP(record)
}

func (s *AuthService) Login(req model.LoginRequest) (*model.LoginResponse, error) {
	record, err := s.storage.GetUserByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !record.Verified {
		return nil, ErrNotVerified
	}

	token, err := s.sign(record.UserID, purposeAccess, 0, s.config.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, User: record.User, Message: "Login successful"}, nil
}

func (s *AuthService) sign(userID, purpose string, version int64, ttl time.Duration) (string, error) {
	now := s.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Purpose: purpose,
		Version: version,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parse(token, purpose string) (*tokenClaims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(token), &claims, func(t *jwt.Token) (any, error) {
		return []byte(s.config.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || claims.Purpose != purpose || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// Authenticate returns the user id carried by an access token.
func (s *AuthService) Authenticate(token string) (string, error) {
	claims, err := s.parse(token, purposeAccess)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ForgotPassword mails a reset token. Unknown addresses succeed silently so
// the endpoint does not reveal which emails have accounts.
func (s *AuthService) ForgotPassword(req model.ForgotPasswordRequest) error {
	record, err := s.storage.GetUserByEmail(req.Email)
	if err != nil {
		logger.Debugf("Password reset requested for unknown email")
		return nil
	}

	token, err := s.sign(record.UserID, purposeReset, record.UpdatedAt.UnixNano(), s.config.ResetTTL)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Use this token to reset your Nexus password: %s", token)
	if err := s.mailer.Send(record.Email, "Reset your password", body); err != nil {
		return unavailable("Failed to send reset email")
	}
	return nil
}

func (s *AuthService) ResetPassword(req model.ResetPasswordRequest) error {
	claims, err := s.parse(req.Token, purposeReset)
	if err != nil {
		return err
	}
	if err := ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	record, err := s.storage.GetUser(claims.Subject)
	if err != nil {
		return ErrInvalidToken
	}
	// Any account change since issue, including a previous reset, voids the token.
	if record.UpdatedAt.UnixNano() != claims.Version {
		return ErrInvalidToken
	}

	return s.setPassword(record, req.NewPassword)
}

func (s *AuthService) setPassword(record *model.UserRecord, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	record.PasswordHash = string(hash)
	record.UpdatedAt = s.now()
	return s.storage.UpdateUser(record)
}

func (s *AuthService) GetUser(userID string) (*model.User, error) {
	record, err := s.storage.GetUser(userID)
	if err != nil {
		return nil, err
	}
	user := record.User
	return &user, nil
}

// UpdateUser applies the non-empty profile fields.
func (s *AuthService) UpdateUser(userID string, req model.UpdateUserRequest) (*model.User, error) {
	record, err := s.storage.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.FullName); name != "" {
		if len([]rune(name)) < 2 {
			return nil, invalid("Full name must be at least 2 characters")
		}
		record.FullName = name
	}
	if req.PhoneNumber != "" {
		record.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	}
	if req.Gender != "" {
		record.Gender = strings.TrimSpace(req.Gender)
	}
	if req.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", req.DateOfBirth); err != nil {
			return nil, invalid("Date of birth must be YYYY-MM-DD")
		}
		record.DateOfBirth = req.DateOfBirth
	}
	record.UpdatedAt = s.now()

	if err := s.storage.UpdateUser(record); err != nil {
		return nil, err
	}
	user := record.User
	return &user, nil
}

func (s *AuthService) ChangePassword(userID string, req model.ChangePasswordRequest) error {
	record, err := s.storage.GetUser(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrWrongPassword
	}
	if err := ValidatePassword(req.NewPassword); err != nil {
		return err
	}
	return s.setPassword(record, req.NewPassword)
}
