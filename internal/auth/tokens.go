package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cjnation/cjnation-backend/pkg/config"
	"github.com/cjnation/cjnation-backend/pkg/db/models"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/cjnation/cjnation-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidTokenMessage = "invalid or expired token"

type tokenUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByVerificationTokenHash(ctx context.Context, hash string) (*models.User, error)
	FindByResetTokenHash(ctx context.Context, hash string) (*models.User, error)
	SetVerificationToken(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	SetResetToken(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error
	UpdatePasswordAndClearReset(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type tokenMailer interface {
	SendVerificationEmail(ctx context.Context, to, link string) error
	SendPasswordResetEmail(ctx context.Context, to, link string) error
}

// TokenService drives the single-use email verification and password reset flows.
type TokenService interface {
	VerifyEmail(ctx context.Context, req VerifyEmailRequest) error
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

// TokenServiceParams packages the dependencies for the token flows.
type TokenServiceParams struct {
	UserRepo       tokenUserRepository
	Mailer         tokenMailer
	PasswordConfig config.PasswordConfig
	TokenConfig    config.TokenConfig
	AppConfig      config.AppConfig
}

type tokenService struct {
	users       tokenUserRepository
	mailer      tokenMailer
	passwordCfg config.PasswordConfig
	tokenCfg    config.TokenConfig
	appCfg      config.AppConfig
}

// NewTokenService builds the verification/reset service.
func NewTokenService(params TokenServiceParams) (TokenService, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	return &tokenService{
		users:       params.UserRepo,
		mailer:      params.Mailer,
		passwordCfg: params.PasswordConfig,
		tokenCfg:    params.TokenConfig,
		appCfg:      params.AppConfig,
	}, nil
}

// VerifyEmail consumes the raw token: the stored hash must match and be
// unexpired. The token is cleared in the same update that flips the flag, so
// a second use fails.
func (s *tokenService) VerifyEmail(ctx context.Context, req VerifyEmailRequest) error {
	raw := strings.TrimSpace(req.Token)
	if raw == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}

	hash := security.HashOneTimeToken(raw)
	user, err := s.users.FindByVerificationTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup verification token")
	}

	if user.VerificationTokenHash == nil ||
		!security.VerifyOneTimeToken(raw, *user.VerificationTokenHash) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
	}
	if user.VerificationExpiresAt == nil || nowUTC().After(*user.VerificationExpiresAt) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
	}

	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark email verified")
	}
	return nil
}

// ResendVerification issues a fresh token for an unverified account. Unknown
// emails succeed silently so the endpoint cannot be used to probe accounts.
func (s *tokenService) ResendVerification(ctx context.Context, email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.EmailVerified {
		return nil
	}

	rawToken, tokenHash, err := security.GenerateOneTimeToken()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification token")
	}
	expiresAt := nowUTC().Add(s.tokenCfg.VerificationTTL)
	if err := s.users.SetVerificationToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store verification token")
	}

	link := verificationLink(s.appCfg.BaseURL, rawToken)
	if err := s.mailer.SendVerificationEmail(ctx, normalized, link); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send verification email")
	}
	return nil
}

// ForgotPassword mails a reset link. Unknown emails succeed silently.
func (s *tokenService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	normalized := strings.ToLower(strings.TrimSpace(req.Email))
	if normalized == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	rawToken, tokenHash, err := security.GenerateOneTimeToken()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}
	expiresAt := nowUTC().Add(s.tokenCfg.PasswordResetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset token")
	}

	link := resetLink(s.appCfg.BaseURL, rawToken)
	if err := s.mailer.SendPasswordResetEmail(ctx, normalized, link); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send reset email")
	}
	return nil
}

// ResetPassword consumes the raw reset token and replaces the password hash.
// The token is cleared in the same update, so a second use fails.
func (s *tokenService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	raw := strings.TrimSpace(req.Token)
	if raw == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}
	if len(req.Password) < s.passwordCfg.MinLength {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", s.passwordCfg.MinLength))
	}

	hash := security.HashOneTimeToken(raw)
	user, err := s.users.FindByResetTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup reset token")
	}

	if user.ResetTokenHash == nil || !security.VerifyOneTimeToken(raw, *user.ResetTokenHash) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
	}
	if user.ResetExpiresAt == nil || nowUTC().After(*user.ResetExpiresAt) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordAndClearReset(ctx, user.ID, passwordHash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
