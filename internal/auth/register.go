package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/cjnation/cjnation-backend/internal/users"
	"github.com/cjnation/cjnation-backend/pkg/config"
	"github.com/cjnation/cjnation-backend/pkg/db"
	"github.com/cjnation/cjnation-backend/pkg/enums"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/cjnation/cjnation-backend/pkg/security"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type verificationMailer interface {
	SendVerificationEmail(ctx context.Context, to, link string) error
}

// RegisterService handles local account creation and the verification email.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             txRunner
	Mailer         verificationMailer
	PasswordConfig config.PasswordConfig
	TokenConfig    config.TokenConfig
	AppConfig      config.AppConfig
}

type registerService struct {
	db          txRunner
	mailer      verificationMailer
	passwordCfg config.PasswordConfig
	tokenCfg    config.TokenConfig
	appCfg      config.AppConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Mailer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mailer required")
	}
	return &registerService{
		db:          params.DB,
		mailer:      params.Mailer,
		passwordCfg: params.PasswordConfig,
		tokenCfg:    params.TokenConfig,
		appCfg:      params.AppConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(req.Password) < s.passwordCfg.MinLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", s.passwordCfg.MinLength))
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	rawToken, tokenHash, err := security.GenerateOneTimeToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification token")
	}

	var created *users.UserDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			Name:         name,
			Role:         enums.UserRoleUser,
			Provider:     enums.AuthProviderLocal,
		})
		if err != nil {
			// A concurrent registration can slip past the pre-check and
			// land on the unique index instead.
			if db.IsUniqueViolation(err, "idx_users_email") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		expiresAt := nowUTC().Add(s.tokenCfg.VerificationTTL)
		if err := userRepo.SetVerificationToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store verification token")
		}

		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	link := verificationLink(s.appCfg.BaseURL, rawToken)
	if err := s.mailer.SendVerificationEmail(ctx, email, link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send verification email")
	}

	resp := &RegisterResponse{User: created}
	if !s.appCfg.IsProd() {
		resp.VerificationToken = rawToken
	}
	return resp, nil
}

func verificationLink(baseURL, rawToken string) string {
	return fmt.Sprintf("%s/auth/verify-email?token=%s",
		strings.TrimSuffix(baseURL, "/"), url.QueryEscape(rawToken))
}

func resetLink(baseURL, rawToken string) string {
	return fmt.Sprintf("%s/auth/reset-password?token=%s",
		strings.TrimSuffix(baseURL, "/"), url.QueryEscape(rawToken))
}
