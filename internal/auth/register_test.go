package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cjnation/cjnation-backend/internal/users"
	"github.com/cjnation/cjnation-backend/pkg/config"
	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/cjnation/cjnation-backend/pkg/enums"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestRegisterService(t *testing.T, mail *stubMailer) RegisterService {
	t.Helper()
	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             stubTxRunner{},
		Mailer:         mail,
		PasswordConfig: testPasswordConfig(),
		TokenConfig:    config.TokenConfig{VerificationTTL: 10 * time.Minute},
		AppConfig:      config.AppConfig{BaseURL: "https://cjnation.com"},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return svc
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newTestRegisterService(t, &stubMailer{})
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "new@example.com",
		Password: "short",
		Name:     "New User",
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRegisterRejectsMissingName(t *testing.T) {
	svc := newTestRegisterService(t, &stubMailer{})
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "new@example.com",
		Password: "long-enough-password",
		Name:     "   ",
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

type sqliteTxRunner struct {
	db *gorm.DB
}

func (r sqliteTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func TestRegisterMapsRacingDuplicateToConflict(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	// Insert the competing row after the pre-check has run but before the
	// insert, the way a concurrent registration would.
	seeded := false
	err = conn.Callback().Create().Before("gorm:create").Register("competing_registration", func(tx *gorm.DB) {
		if seeded {
			return
		}
		seeded = true
		dup := &models.User{
			ID:           uuid.New(),
			Email:        "race@example.com",
			PasswordHash: "irrelevant",
			Name:         "First In",
			Role:         enums.UserRoleUser,
			Provider:     enums.AuthProviderLocal,
		}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(dup).Error; err != nil {
			t.Errorf("seed competing row: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             sqliteTxRunner{db: conn},
		Mailer:         &stubMailer{},
		PasswordConfig: testPasswordConfig(),
		TokenConfig:    config.TokenConfig{VerificationTTL: 10 * time.Minute},
		AppConfig:      config.AppConfig{BaseURL: "https://cjnation.com"},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email:    "race@example.com",
		Password: "long-enough-password",
		Name:     "Second In",
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestVerificationLinkEscapesToken(t *testing.T) {
	link := verificationLink("https://cjnation.com/", "abc+def")
	if link != "https://cjnation.com/auth/verify-email?token=abc%2Bdef" {
		t.Fatalf("unexpected link %s", link)
	}
}

func TestResetLinkShape(t *testing.T) {
	link := resetLink("https://cjnation.com", "tok")
	if !strings.HasPrefix(link, "https://cjnation.com/auth/reset-password?token=") {
		t.Fatalf("unexpected link %s", link)
	}
}

// Compile-time check that the concrete users repo satisfies the interfaces the
// auth services consume.
var (
	_ userRepository       = (*users.Repository)(nil)
	_ tokenUserRepository  = (*users.Repository)(nil)
	_ googleUserRepository = (*users.Repository)(nil)
)
