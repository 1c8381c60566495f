package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/internal/users"
	pkgauth "github.com/shahinarahman616-del/HealthMate/pkg/auth"
	"github.com/shahinarahman616-del/HealthMate/pkg/auth/session"
	"github.com/shahinarahman616-del/HealthMate/pkg/config"
	"github.com/shahinarahman616-del/HealthMate/pkg/db"
	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
	"github.com/shahinarahman616-del/HealthMate/pkg/logger"
	"github.com/shahinarahman616-del/HealthMate/pkg/security"
)

const (
	// UniqueEmailConstraint names the DB backstop against duplicate signups.
	UniqueEmailConstraint = "uq_users_email"

	resetCodeLength = 6
	resetCodeTTL    = time.Hour

	invalidCredentialsMessage = "invalid email or password"
	inactiveAccountMessage    = "account is inactive"
	duplicateEmailMessage     = "an account with this email already exists"
	invalidResetCodeMessage   = "invalid or expired reset code"
	forgotPasswordMessage     = "if an account exists for that email, a reset code has been issued"
)

// Service defines the authentication surface used by controllers.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, accessID string) error
	Refresh(ctx context.Context, req RefreshRequest) (*TokenPairResponse, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (string, error)
	VerifyResetToken(ctx context.Context, req VerifyResetTokenRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type resetTokenRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	FindValid(ctx context.Context, userID uuid.UUID, now time.Time) (*models.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error
	InvalidateForUser(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type notifier interface {
	Push(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string)
}

// ServiceParams bundles the auth service dependencies.
type ServiceParams struct {
	Users       userRepository
	Sessions    sessionManager
	ResetTokens resetTokenRepository
	Notifier    notifier
	JWT         config.JWTConfig
	Password    config.PasswordConfig
	Logger      *logger.Logger
	Now         func() time.Time
}

type service struct {
	users       userRepository
	sessions    sessionManager
	resetTokens resetTokenRepository
	notifier    notifier
	jwt         config.JWTConfig
	password    config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService constructs the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.ResetTokens == nil {
		return nil, fmt.Errorf("reset token repository is required")
	}
	if params.Now == nil {
		params.Now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		users:       params.Users,
		sessions:    params.Sessions,
		resetTokens: params.ResetTokens,
		notifier:    params.Notifier,
		jwt:         params.JWT,
		password:    params.Password,
		logg:        params.Logger,
		now:         params.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, duplicateEmailMessage)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing account")
	}

	var gender *enums.Gender
	if req.Gender != nil {
		parsed, err := enums.ParseGender(*req.Gender)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid gender")
		}
		gender = &parsed
	}

	hash, err := security.HashPassword(req.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Phone:        req.Phone,
		DateOfBirth:  req.DateOfBirth,
		Gender:       gender,
	})
	if err != nil {
		if db.IsUniqueViolation(err, UniqueEmailConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, duplicateEmailMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create account")
	}

	pair, err := s.mintTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Push(ctx, user.ID, enums.NotificationTypeSystem,
			"Welcome to HealthMate",
			"Your account is ready. Add your health profile to get started.")
	}

	return &AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         *users.FromModel(user),
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if user.Status != enums.AccountStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, inactiveAccountMessage)
	}

	pair, err := s.mintTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, user.ID.String()), "updating last login failed")
	}
	user.LastLoginAt = &now

	return &AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         *users.FromModel(user),
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

// Refresh rotates the refresh token tied to the (possibly expired) access
// token and mints a fresh pair.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*TokenPairResponse, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwt, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID:   claims.UserID,
		Email:    claims.Email,
		FullName: claims.FullName,
		JTI:      newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &TokenPairResponse{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// ForgotPassword issues a reset code without revealing whether the account
// exists. The code is delivered as an in-app notification.
func (s *service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return forgotPasswordMessage, nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account")
	}

	code, err := security.GenerateResetCode(resetCodeLength)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset code")
	}

	now := s.now()
	if err := s.resetTokens.InvalidateForUser(ctx, user.ID, now); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalidate previous codes")
	}
	token := &models.PasswordResetToken{
		UserID:    user.ID,
		CodeHash:  hashResetCode(code),
		ExpiresAt: now.Add(resetCodeTTL),
	}
	if err := s.resetTokens.Create(ctx, token); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset code")
	}

	if s.notifier != nil {
		s.notifier.Push(ctx, user.ID, enums.NotificationTypeSystem,
			"Password reset code",
			fmt.Sprintf("Your password reset code is %s. It expires in one hour.", code))
	}

	return forgotPasswordMessage, nil
}

func (s *service) VerifyResetToken(ctx context.Context, req VerifyResetTokenRequest) error {
	_, _, err := s.lookupResetToken(ctx, req.Email, req.Code)
	return err
}

// ResetPassword consumes the reset code and replaces the stored hash.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	user, token, err := s.lookupResetToken(ctx, req.Email, req.Code)
	if err != nil {
		return err
	}

	hash, err := security.HashPassword(req.NewPassword, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.SetPasswordHash(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store password")
	}
	if err := s.resetTokens.MarkUsed(ctx, token.ID, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consume reset code")
	}

	if s.notifier != nil {
		s.notifier.Push(ctx, user.ID, enums.NotificationTypeSystem,
			"Password changed",
			"Your password was just changed. Contact support if this wasn't you.")
	}
	return nil
}

func (s *service) lookupResetToken(ctx context.Context, email, code string) (*models.User, *models.PasswordResetToken, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, invalidResetCodeMessage)
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account")
	}

	token, err := s.resetTokens.FindValid(ctx, user.ID, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, invalidResetCodeMessage)
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load reset code")
	}

	expected := hashResetCode(strings.TrimSpace(code))
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token.CodeHash)) != 1 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, invalidResetCodeMessage)
	}
	return user, token, nil
}

func (s *service) mintTokenPair(ctx context.Context, user *models.User) (*TokenPairResponse, error) {
	accessID := session.NewAccessID()
	accessToken, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session")
	}

	return &TokenPairResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func hashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
