package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/cjnation/cjnation-backend/pkg/config"
	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/cjnation/cjnation-backend/pkg/enums"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/cjnation/cjnation-backend/pkg/storage/gcs"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

type mediaRepository interface {
	Create(ctx context.Context, media *models.Media) (*models.Media, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type objectStore interface {
	Upload(ctx context.Context, key, contentType string, payload io.Reader) (*gcs.ObjectInfo, error)
	DeleteObject(ctx context.Context, key string) error
	PublicURL(key string) string
	SignedReadURL(key string, expiry time.Duration) (string, error)
}

// Service stores uploaded files in GCS and tracks their metadata.
type Service interface {
	Upload(ctx context.Context, userID uuid.UUID, input UploadInput) (*models.Media, error)
	Replace(ctx context.Context, userID uuid.UUID, oldMediaID *uuid.UUID, input UploadInput) (*models.Media, error)
	Delete(ctx context.Context, mediaID uuid.UUID) error
	DownloadURL(ctx context.Context, mediaID uuid.UUID) (string, error)
}

// UploadInput models one inbound file.
type UploadInput struct {
	Kind      enums.MediaKind
	FileName  string
	MimeType  string
	SizeBytes int64
	Payload   io.Reader
}

type service struct {
	repo      mediaRepository
	store     objectStore
	folder    string
	maxBytes  int64
	signedTTL time.Duration
}

// ServiceParams bundles the dependencies required to build a media service.
type ServiceParams struct {
	Repo        mediaRepository
	Store       objectStore
	MediaConfig config.MediaConfig
	SignedTTL   time.Duration
}

// NewService constructs a media service backed by the provided repo and object store.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("object store required")
	}
	maxMB := params.MediaConfig.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 20
	}
	folder := strings.Trim(params.MediaConfig.Folder, "/")
	if folder == "" {
		folder = "cjnation"
	}
	ttl := params.SignedTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &service{
		repo:      params.Repo,
		store:     params.Store,
		folder:    folder,
		maxBytes:  int64(maxMB) * 1024 * 1024,
		signedTTL: ttl,
	}, nil
}

var mimeTypesByKind = map[enums.MediaKind][]string{
	enums.MediaKindPostImage:  {"image/png", "image/jpeg", "image/webp", "image/gif"},
	enums.MediaKindAvatar:     {"image/png", "image/jpeg", "image/webp"},
	enums.MediaKindMovieThumb: {"image/png", "image/jpeg", "image/webp"},
	enums.MediaKindMusicThumb: {"image/png", "image/jpeg", "image/webp"},
	enums.MediaKindMusicAudio: {"audio/mpeg", "audio/mp4", "audio/ogg", "audio/wav"},
}

// Upload streams the payload to GCS first and records metadata only after the
// object exists, so a failed upload never leaves a dangling DB row.
func (s *service) Upload(ctx context.Context, userID uuid.UUID, input UploadInput) (*models.Media, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	fileName := sanitizeFileName(input.FileName)
	mediaID := uuid.New()
	key := s.buildKey(input.Kind, mediaID, fileName)

	info, err := s.store.Upload(ctx, key, input.MimeType, input.Payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload object")
	}

	size := input.SizeBytes
	if info != nil && info.SizeBytes > 0 {
		size = info.SizeBytes
	}

	row := &models.Media{
		ID:          mediaID,
		OwnerUserID: userID,
		Kind:        input.Kind,
		GCSKey:      key,
		URL:         s.store.PublicURL(key),
		FileName:    fileName,
		MimeType:    input.MimeType,
		SizeBytes:   size,
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		_ = s.store.DeleteObject(ctx, key)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist media row")
	}
	return row, nil
}

// Replace uploads the new object before touching the old one. The old object
// and row are removed only after the new media is fully persisted; a cleanup
// failure is swallowed since the new media is already live.
func (s *service) Replace(ctx context.Context, userID uuid.UUID, oldMediaID *uuid.UUID, input UploadInput) (*models.Media, error) {
	created, err := s.Upload(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	if oldMediaID != nil && *oldMediaID != uuid.Nil {
		_ = s.Delete(ctx, *oldMediaID)
	}
	return created, nil
}

func (s *service) Delete(ctx context.Context, mediaID uuid.UUID) error {
	if mediaID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "media id is required")
	}
	row, err := s.repo.FindByID(ctx, mediaID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "media not found")
	}
	// Attempt both cleanups even when the first fails so a broken bucket
	// call does not strand the row forever, and vice versa.
	var errs error
	if err := s.store.DeleteObject(ctx, row.GCSKey); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("delete object: %w", err))
	}
	if err := s.repo.Delete(ctx, mediaID); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("delete media row: %w", err))
	}
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "delete media")
	}
	return nil
}

// DownloadURL returns a time-limited signed URL for a stored object.
func (s *service) DownloadURL(ctx context.Context, mediaID uuid.UUID) (string, error) {
	if mediaID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "media id is required")
	}
	row, err := s.repo.FindByID(ctx, mediaID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "media not found")
	}
	url, err := s.store.SignedReadURL(row.GCSKey, s.signedTTL)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign download url")
	}
	return url, nil
}

func (s *service) validateInput(input UploadInput) error {
	if input.Kind == "" || !input.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}
	if strings.TrimSpace(input.FileName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.Payload == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payload is required")
	}
	if input.SizeBytes <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > s.maxBytes {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be at most %d bytes", s.maxBytes))
	}
	mimeType := strings.TrimSpace(input.MimeType)
	if mimeType == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "mime_type is required")
	}
	if !isAllowedMime(input.Kind, mimeType) {
		return pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed for media kind")
	}
	return nil
}

func isAllowedMime(kind enums.MediaKind, mimeType string) bool {
	if allowed, ok := mimeTypesByKind[kind]; ok && len(allowed) > 0 {
		for _, candidate := range allowed {
			if strings.EqualFold(candidate, mimeType) {
				return true
			}
		}
		return false
	}
	return true
}

func (s *service) buildKey(kind enums.MediaKind, id uuid.UUID, fileName string) string {
	if fileName == "" {
		fileName = id.String()
	}
	return fmt.Sprintf("%s/%s/%s/%s", s.folder, kind, id.String(), fileName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
