package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cjnation/cjnation-backend/internal/users"
	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/cjnation/cjnation-backend/pkg/enums"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubGoogleUserRepo struct {
	byEmail map[string]*models.User
	created []users.CreateUserDTO
	logins  map[uuid.UUID]time.Time
}

func newStubGoogleUserRepo() *stubGoogleUserRepo {
	return &stubGoogleUserRepo{
		byEmail: map[string]*models.User{},
		logins:  map[uuid.UUID]time.Time{},
	}
}

func (s *stubGoogleUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubGoogleUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	s.created = append(s.created, dto)
	user := dto.ToModel()
	s.byEmail[dto.Email] = user
	return user, nil
}

func (s *stubGoogleUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.logins[id] = at
	return nil
}

type stubExchanger struct {
	info *GoogleUserInfo
	err  error
	code string
}

func (s *stubExchanger) Exchange(ctx context.Context, code string) (*GoogleUserInfo, error) {
	s.code = code
	if s.err != nil {
		return nil, s.err
	}
	return s.info, nil
}

func newTestGoogleService(t *testing.T, repo *stubGoogleUserRepo, ex *stubExchanger) GoogleService {
	t.Helper()
	svc, err := NewGoogleService(GoogleServiceParams{
		UserRepo:       repo,
		SessionManager: &stubSessionManager{},
		Exchanger:      ex,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new google service: %v", err)
	}
	return svc
}

func TestGoogleLoginCreatesUserOnFirstLogin(t *testing.T) {
	repo := newStubGoogleUserRepo()
	ex := &stubExchanger{info: &GoogleUserInfo{
		ID:            "g-123",
		Email:         "Writer@Example.com",
		VerifiedEmail: true,
		Name:          "Ada Writer",
	}}
	svc := newTestGoogleService(t, repo, ex)

	resp, err := svc.Login(context.Background(), GoogleLoginRequest{Code: "auth-code"})
	if err != nil {
		t.Fatalf("google login: %v", err)
	}
	if ex.code != "auth-code" {
		t.Fatalf("exchanged code %q", ex.code)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one created user, got %d", len(repo.created))
	}
	created := repo.created[0]
	if created.Email != "writer@example.com" {
		t.Errorf("email not normalized: %s", created.Email)
	}
	if created.Provider != enums.AuthProviderGoogle {
		t.Errorf("provider = %s", created.Provider)
	}
	if !created.EmailVerified {
		t.Error("google accounts should start verified")
	}
	if created.Name != "Ada Writer" {
		t.Errorf("name = %s", created.Name)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected a full token pair")
	}
	if resp.User == nil || resp.User.Email != "writer@example.com" {
		t.Errorf("unexpected user payload: %+v", resp.User)
	}
	if len(repo.logins) != 1 {
		t.Error("expected last login to be recorded")
	}
}

func TestGoogleLoginReusesExistingAccount(t *testing.T) {
	repo := newStubGoogleUserRepo()
	existing := users.CreateUserDTO{
		Email:         "writer@example.com",
		Name:          "Ada Writer",
		Role:          enums.UserRoleUser,
		Provider:      enums.AuthProviderGoogle,
		EmailVerified: true,
	}.ToModel()
	repo.byEmail[existing.Email] = existing

	ex := &stubExchanger{info: &GoogleUserInfo{
		Email:         "writer@example.com",
		VerifiedEmail: true,
		Name:          "Ada Writer",
	}}
	svc := newTestGoogleService(t, repo, ex)

	resp, err := svc.Login(context.Background(), GoogleLoginRequest{Code: "auth-code"})
	if err != nil {
		t.Fatalf("google login: %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no new user, got %d", len(repo.created))
	}
	if resp.User.ID != existing.ID {
		t.Errorf("logged into wrong account: %s", resp.User.ID)
	}
	if _, ok := repo.logins[existing.ID]; !ok {
		t.Error("expected last login to be recorded")
	}
}

func TestGoogleLoginRejectsUnverifiedEmail(t *testing.T) {
	repo := newStubGoogleUserRepo()
	ex := &stubExchanger{info: &GoogleUserInfo{
		Email:         "writer@example.com",
		VerifiedEmail: false,
	}}
	svc := newTestGoogleService(t, repo, ex)

	_, err := svc.Login(context.Background(), GoogleLoginRequest{Code: "auth-code"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
	if len(repo.created) != 0 {
		t.Error("unverified profile must not create an account")
	}
}

func TestGoogleLoginRejectsFailedExchange(t *testing.T) {
	repo := newStubGoogleUserRepo()
	ex := &stubExchanger{err: errors.New("invalid_grant")}
	svc := newTestGoogleService(t, repo, ex)

	_, err := svc.Login(context.Background(), GoogleLoginRequest{Code: "bad-code"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestGoogleLoginRequiresCode(t *testing.T) {
	svc := newTestGoogleService(t, newStubGoogleUserRepo(), &stubExchanger{})
	_, err := svc.Login(context.Background(), GoogleLoginRequest{Code: "  "})
	assertCode(t, err, pkgerrors.CodeValidation)
}
