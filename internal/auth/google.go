package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cjnation/cjnation-backend/internal/users"
	"github.com/cjnation/cjnation-backend/pkg/config"
	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/cjnation/cjnation-backend/pkg/enums"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const googleUserInfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleUserInfo is the profile subset read from Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
}

type googleExchanger interface {
	Exchange(ctx context.Context, code string) (*GoogleUserInfo, error)
}

type googleUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// GoogleService signs users in with a Google authorization code, creating the
// account on first login.
type GoogleService interface {
	Login(ctx context.Context, req GoogleLoginRequest) (*LoginResponse, error)
}

// GoogleServiceParams packages the dependencies for the social login flow.
type GoogleServiceParams struct {
	UserRepo       googleUserRepository
	SessionManager sessionManager
	Exchanger      googleExchanger
	JWTConfig      config.JWTConfig
}

type googleService struct {
	users     googleUserRepository
	session   sessionManager
	exchanger googleExchanger
	jwtCfg    config.JWTConfig
}

// NewGoogleService constructs the social login service.
func NewGoogleService(params GoogleServiceParams) (GoogleService, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Exchanger == nil {
		return nil, fmt.Errorf("google exchanger is required")
	}
	return &googleService{
		users:     params.UserRepo,
		session:   params.SessionManager,
		exchanger: params.Exchanger,
		jwtCfg:    params.JWTConfig,
	}, nil
}

func (s *googleService) Login(ctx context.Context, req GoogleLoginRequest) (*LoginResponse, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}

	info, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "google code exchange failed")
	}
	if !info.VerifiedEmail {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "google email not verified")
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "google profile missing email")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
		user, err = s.users.Create(ctx, users.CreateUserDTO{
			Email:         email,
			Name:          displayName(info, email),
			Role:          enums.UserRoleUser,
			Provider:      enums.AuthProviderGoogle,
			EmailVerified: true,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	return issueSession(ctx, s.session, s.jwtCfg, now, user)
}

func displayName(info *GoogleUserInfo, email string) string {
	if name := strings.TrimSpace(info.Name); name != "" {
		return name
	}
	if given := strings.TrimSpace(info.GivenName); given != "" {
		return given
	}
	return strings.Split(email, "@")[0]
}

// OAuthExchanger exchanges authorization codes against Google's endpoints.
type OAuthExchanger struct {
	cfg        *oauth2.Config
	httpClient *http.Client
}

// NewOAuthExchanger builds the production exchanger from config.
func NewOAuthExchanger(cfg config.GoogleOAuthConfig) *OAuthExchanger {
	return &OAuthExchanger{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Exchange trades the code for a token and loads the Google profile.
func (e *OAuthExchanger) Exchange(ctx context.Context, code string) (*GoogleUserInfo, error) {
	token, err := e.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoEndpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("userinfo returned %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return &info, nil
}
