package users

import (
	"context"
	"testing"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users         map[uuid.UUID]*models.User
	updatedName   string
	updatedAvatar *uuid.UUID
	avatarCleared bool
	updateErr     error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedName = name
	return nil
}

func (s *stubUserRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, mediaID *uuid.UUID) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedAvatar = mediaID
	if mediaID == nil {
		s.avatarCleared = true
	}
	return nil
}

type stubAvatarReleaser struct {
	released []uuid.UUID
}

func (s *stubAvatarReleaser) Delete(ctx context.Context, mediaID uuid.UUID) error {
	s.released = append(s.released, mediaID)
	return nil
}

func newTestService(t *testing.T, repo *stubUserRepo, media *stubAvatarReleaser) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{UserRepo: repo, Media: media})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestGetProfileReturnsUser(t *testing.T) {
	repo := newStubUserRepo()
	user := &models.User{ID: uuid.New(), Email: "reader@example.com", Name: "Reader"}
	repo.users[user.ID] = user
	svc := newTestService(t, repo, &stubAvatarReleaser{})

	dto, err := svc.GetProfile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if dto.Email != "reader@example.com" {
		t.Fatalf("unexpected email %s", dto.Email)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), &stubAvatarReleaser{})

	_, err := svc.GetProfile(context.Background(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateProfileTrimsAndPersists(t *testing.T) {
	repo := newStubUserRepo()
	user := &models.User{ID: uuid.New(), Name: "Before"}
	repo.users[user.ID] = user
	svc := newTestService(t, repo, &stubAvatarReleaser{})

	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{Name: "  After  "})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if repo.updatedName != "After" {
		t.Fatalf("expected trimmed name, got %q", repo.updatedName)
	}
	if dto.Name != "After" {
		t.Fatalf("expected dto name After, got %q", dto.Name)
	}
}

func TestUpdateProfileRejectsEmptyName(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), &stubAvatarReleaser{})

	_, err := svc.UpdateProfile(context.Background(), uuid.New(), UpdateProfileRequest{Name: "  "})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateProfileReleasesReplacedAvatar(t *testing.T) {
	repo := newStubUserRepo()
	media := &stubAvatarReleaser{}
	oldAvatar := uuid.New()
	user := &models.User{ID: uuid.New(), Name: "Reader", AvatarMediaID: &oldAvatar}
	repo.users[user.ID] = user
	svc := newTestService(t, repo, media)

	newAvatar := uuid.New()
	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		Name:          "Reader",
		AvatarMediaID: &newAvatar,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if repo.updatedAvatar == nil || *repo.updatedAvatar != newAvatar {
		t.Error("new avatar reference not persisted")
	}
	if len(media.released) != 1 || media.released[0] != oldAvatar {
		t.Fatalf("expected old avatar released, got %v", media.released)
	}
	if dto.AvatarMediaID == nil || *dto.AvatarMediaID != newAvatar {
		t.Error("dto does not carry the new avatar")
	}
}

func TestDeleteAvatarClearsReferenceAndReleasesObject(t *testing.T) {
	repo := newStubUserRepo()
	media := &stubAvatarReleaser{}
	avatar := uuid.New()
	user := &models.User{ID: uuid.New(), Name: "Reader", AvatarMediaID: &avatar}
	repo.users[user.ID] = user
	svc := newTestService(t, repo, media)

	dto, err := svc.DeleteAvatar(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("delete avatar: %v", err)
	}
	if !repo.avatarCleared {
		t.Error("avatar reference not cleared")
	}
	if len(media.released) != 1 || media.released[0] != avatar {
		t.Fatalf("expected avatar released, got %v", media.released)
	}
	if dto.AvatarMediaID != nil {
		t.Error("dto still carries an avatar")
	}
}

func TestDeleteAvatarWithoutAvatarIsNoop(t *testing.T) {
	repo := newStubUserRepo()
	media := &stubAvatarReleaser{}
	user := &models.User{ID: uuid.New(), Name: "Reader"}
	repo.users[user.ID] = user
	svc := newTestService(t, repo, media)

	if _, err := svc.DeleteAvatar(context.Background(), user.ID); err != nil {
		t.Fatalf("delete avatar: %v", err)
	}
	if len(media.released) != 0 {
		t.Fatalf("nothing should be released, got %v", media.released)
	}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s got %s", code, typed.Code())
	}
}
