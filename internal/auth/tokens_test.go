package auth

import (
	"context"
	"testing"
	"time"

	"github.com/cjnation/cjnation-backend/pkg/config"
	"github.com/cjnation/cjnation-backend/pkg/db/models"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/cjnation/cjnation-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubTokenUserRepo struct {
	byEmail       map[string]*models.User
	byVerifyHash  map[string]*models.User
	byResetHash   map[string]*models.User
	verified      []uuid.UUID
	passwordSet   map[uuid.UUID]string
	verifyTokens  map[uuid.UUID]string
	resetTokens   map[uuid.UUID]string
	verifyExpires map[uuid.UUID]time.Time
	resetExpires  map[uuid.UUID]time.Time
}

func newStubTokenUserRepo() *stubTokenUserRepo {
	return &stubTokenUserRepo{
		byEmail:       map[string]*models.User{},
		byVerifyHash:  map[string]*models.User{},
		byResetHash:   map[string]*models.User{},
		passwordSet:   map[uuid.UUID]string{},
		verifyTokens:  map[uuid.UUID]string{},
		resetTokens:   map[uuid.UUID]string{},
		verifyExpires: map[uuid.UUID]time.Time{},
		resetExpires:  map[uuid.UUID]time.Time{},
	}
}

func (s *stubTokenUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTokenUserRepo) FindByVerificationTokenHash(ctx context.Context, hash string) (*models.User, error) {
	if u, ok := s.byVerifyHash[hash]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTokenUserRepo) FindByResetTokenHash(ctx context.Context, hash string) (*models.User, error) {
	if u, ok := s.byResetHash[hash]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTokenUserRepo) SetVerificationToken(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	s.verifyTokens[id] = hash
	s.verifyExpires[id] = expiresAt
	return nil
}

func (s *stubTokenUserRepo) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	s.verified = append(s.verified, id)
	for hash, u := range s.byVerifyHash {
		if u.ID == id {
			u.EmailVerified = true
			u.VerificationTokenHash = nil
			u.VerificationExpiresAt = nil
			delete(s.byVerifyHash, hash)
		}
	}
	return nil
}

func (s *stubTokenUserRepo) SetResetToken(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	s.resetTokens[id] = hash
	s.resetExpires[id] = expiresAt
	return nil
}

func (s *stubTokenUserRepo) UpdatePasswordAndClearReset(ctx context.Context, id uuid.UUID, passwordHash string) error {
	s.passwordSet[id] = passwordHash
	for hash, u := range s.byResetHash {
		if u.ID == id {
			u.ResetTokenHash = nil
			u.ResetExpiresAt = nil
			delete(s.byResetHash, hash)
		}
	}
	return nil
}

type stubMailer struct {
	verifyLinks []string
	resetLinks  []string
	verifyTo    []string
	resetTo     []string
}

func (s *stubMailer) SendVerificationEmail(ctx context.Context, to, link string) error {
	s.verifyTo = append(s.verifyTo, to)
	s.verifyLinks = append(s.verifyLinks, link)
	return nil
}

func (s *stubMailer) SendPasswordResetEmail(ctx context.Context, to, link string) error {
	s.resetTo = append(s.resetTo, to)
	s.resetLinks = append(s.resetLinks, link)
	return nil
}

func newTestTokenService(t *testing.T, repo *stubTokenUserRepo, mail *stubMailer) TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenServiceParams{
		UserRepo:       repo,
		Mailer:         mail,
		PasswordConfig: testPasswordConfig(),
		TokenConfig:    config.TokenConfig{VerificationTTL: 10 * time.Minute, PasswordResetTTL: 10 * time.Minute},
		AppConfig:      config.AppConfig{BaseURL: "https://cjnation.com"},
	})
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return svc
}

func TestVerifyEmailConsumesToken(t *testing.T) {
	repo := newStubTokenUserRepo()
	raw, hash, err := security.GenerateOneTimeToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	expires := time.Now().UTC().Add(5 * time.Minute)
	user := &models.User{
		ID:                    uuid.New(),
		VerificationTokenHash: &hash,
		VerificationExpiresAt: &expires,
	}
	repo.byVerifyHash[hash] = user

	svc := newTestTokenService(t, repo, &stubMailer{})
	if err := svc.VerifyEmail(context.Background(), VerifyEmailRequest{Token: raw}); err != nil {
		t.Fatalf("verify email: %v", err)
	}
	if len(repo.verified) != 1 || repo.verified[0] != user.ID {
		t.Fatalf("expected user marked verified, got %v", repo.verified)
	}
}

func TestVerifyEmailTokenIsSingleUse(t *testing.T) {
	repo := newStubTokenUserRepo()
	raw, hash, err := security.GenerateOneTimeToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	expires := time.Now().UTC().Add(5 * time.Minute)
	user := &models.User{
		ID:                    uuid.New(),
		VerificationTokenHash: &hash,
		VerificationExpiresAt: &expires,
	}
	repo.byVerifyHash[hash] = user

	svc := newTestTokenService(t, repo, &stubMailer{})
	if err := svc.VerifyEmail(context.Background(), VerifyEmailRequest{Token: raw}); err != nil {
		t.Fatalf("first use: %v", err)
	}

	err = svc.VerifyEmail(context.Background(), VerifyEmailRequest{Token: raw})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
	if len(repo.verified) != 1 {
		t.Fatalf("second use must not re-verify, got %d marks", len(repo.verified))
	}
}

func TestVerifyEmailRejectsExpiredToken(t *testing.T) {
	repo := newStubTokenUserRepo()
	raw, hash, err := security.GenerateOneTimeToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	expires := time.Now().UTC().Add(-time.Minute)
	repo.byVerifyHash[hash] = &models.User{
		ID:                    uuid.New(),
		VerificationTokenHash: &hash,
		VerificationExpiresAt: &expires,
	}

	svc := newTestTokenService(t, repo, &stubMailer{})
	err = svc.VerifyEmail(context.Background(), VerifyEmailRequest{Token: raw})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
	if len(repo.verified) != 0 {
		t.Fatal("expired token must not verify")
	}
}

func TestVerifyEmailRejectsUnknownToken(t *testing.T) {
	svc := newTestTokenService(t, newStubTokenUserRepo(), &stubMailer{})
	err := svc.VerifyEmail(context.Background(), VerifyEmailRequest{Token: "deadbeef"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestForgotPasswordStoresHashAndMailsLink(t *testing.T) {
	repo := newStubTokenUserRepo()
	user := &models.User{ID: uuid.New(), Email: "writer@example.com"}
	repo.byEmail[user.Email] = user
	mail := &stubMailer{}

	svc := newTestTokenService(t, repo, mail)
	if err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "Writer@Example.com"}); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	if _, ok := repo.resetTokens[user.ID]; !ok {
		t.Fatal("expected reset token stored")
	}
	if len(mail.resetLinks) != 1 {
		t.Fatalf("expected one reset email, got %d", len(mail.resetLinks))
	}
	// the stored value is a hash, never the raw token from the link
	if link := mail.resetLinks[0]; link == "" || repo.resetTokens[user.ID] == link {
		t.Fatalf("stored token must be a hash, link=%s", link)
	}
}

func TestForgotPasswordSilentOnUnknownEmail(t *testing.T) {
	mail := &stubMailer{}
	svc := newTestTokenService(t, newStubTokenUserRepo(), mail)
	if err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "ghost@example.com"}); err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
	if len(mail.resetLinks) != 0 {
		t.Fatal("unknown email must not receive mail")
	}
}

func TestResetPasswordReplacesHash(t *testing.T) {
	repo := newStubTokenUserRepo()
	raw, hash, err := security.GenerateOneTimeToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	expires := time.Now().UTC().Add(5 * time.Minute)
	user := &models.User{ID: uuid.New(), ResetTokenHash: &hash, ResetExpiresAt: &expires}
	repo.byResetHash[hash] = user

	svc := newTestTokenService(t, repo, &stubMailer{})
	if err := svc.ResetPassword(context.Background(), ResetPasswordRequest{Token: raw, Password: "new-password-1"}); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	newHash, ok := repo.passwordSet[user.ID]
	if !ok {
		t.Fatal("expected password updated")
	}
	valid, err := security.VerifyPassword("new-password-1", newHash)
	if err != nil || !valid {
		t.Fatalf("expected new password to verify, valid=%v err=%v", valid, err)
	}
}

func TestResetPasswordTokenIsSingleUse(t *testing.T) {
	repo := newStubTokenUserRepo()
	raw, hash, err := security.GenerateOneTimeToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	expires := time.Now().UTC().Add(5 * time.Minute)
	user := &models.User{ID: uuid.New(), ResetTokenHash: &hash, ResetExpiresAt: &expires}
	repo.byResetHash[hash] = user

	svc := newTestTokenService(t, repo, &stubMailer{})
	if err := svc.ResetPassword(context.Background(), ResetPasswordRequest{Token: raw, Password: "new-password-1"}); err != nil {
		t.Fatalf("first reset: %v", err)
	}
	firstHash := repo.passwordSet[user.ID]

	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{Token: raw, Password: "another-password-2"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
	if repo.passwordSet[user.ID] != firstHash {
		t.Fatal("second use of the same token must not change the password")
	}
}

func TestResetPasswordRejectsShortPassword(t *testing.T) {
	svc := newTestTokenService(t, newStubTokenUserRepo(), &stubMailer{})
	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{Token: "tok", Password: "short"})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestResendVerificationSkipsVerifiedUser(t *testing.T) {
	repo := newStubTokenUserRepo()
	user := &models.User{ID: uuid.New(), Email: "done@example.com", EmailVerified: true}
	repo.byEmail[user.Email] = user
	mail := &stubMailer{}

	svc := newTestTokenService(t, repo, mail)
	if err := svc.ResendVerification(context.Background(), "done@example.com"); err != nil {
		t.Fatalf("resend: %v", err)
	}
	if len(mail.verifyLinks) != 0 {
		t.Fatal("verified user must not receive mail")
	}
}
