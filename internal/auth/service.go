package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cjnation/cjnation-backend/internal/users"
	pkgAuth "github.com/cjnation/cjnation-backend/pkg/auth"
	"github.com/cjnation/cjnation-backend/pkg/auth/session"
	"github.com/cjnation/cjnation-backend/pkg/config"
	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/cjnation/cjnation-backend/pkg/enums"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/cjnation/cjnation-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetVerificationToken(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	Mailer         verificationMailer
	JWTConfig      config.JWTConfig
	TokenConfig    config.TokenConfig
	AppConfig      config.AppConfig
}

type service struct {
	users    userRepository
	session  sessionManager
	mailer   verificationMailer
	jwtCfg   config.JWTConfig
	tokenCfg config.TokenConfig
	appCfg   config.AppConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	return &service{
		users:    params.UserRepo,
		session:  params.SessionManager,
		mailer:   params.Mailer,
		jwtCfg:   params.JWTConfig,
		tokenCfg: params.TokenConfig,
		appCfg:   params.AppConfig,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// Correct credentials on an unverified account never mint a session.
	// A fresh verification token is issued instead.
	if !user.EmailVerified {
		return s.reissueVerification(ctx, user)
	}

	now, err := s.recordLogin(ctx, user)
	if err != nil {
		return nil, err
	}

	return issueSession(ctx, s.session, s.jwtCfg, now, user)
}

func (s *service) reissueVerification(ctx context.Context, user *models.User) (*LoginResponse, error) {
	rawToken, tokenHash, err := security.GenerateOneTimeToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification token")
	}
	expiresAt := time.Now().UTC().Add(s.tokenCfg.VerificationTTL)
	if err := s.users.SetVerificationToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store verification token")
	}
	link := verificationLink(s.appCfg.BaseURL, rawToken)
	if err := s.mailer.SendVerificationEmail(ctx, user.Email, link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send verification email")
	}

	resp := &LoginResponse{User: users.FromModel(user)}
	if !s.appCfg.IsProd() {
		resp.VerificationToken = rawToken
	}
	return resp, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if user.Provider != enums.AuthProviderLocal {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) recordLogin(ctx context.Context, user *models.User) (time.Time, error) {
	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now
	return now, nil
}

// issueSession mints the access token and registers the refresh mapping. It
// is shared by the password and Google login paths.
func issueSession(ctx context.Context, mgr sessionManager, jwtCfg config.JWTConfig, now time.Time, user *models.User) (*LoginResponse, error) {
	accessID := session.NewAccessID()
	tokenPayload := pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	}
	accessToken, err := pkgAuth.MintAccessToken(jwtCfg, now, tokenPayload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := mgr.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}
