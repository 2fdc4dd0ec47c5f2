package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type movieRepository interface {
	Create(ctx context.Context, movie *models.Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Movie, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, term string, categoryID *uuid.UUID) ([]models.Movie, error)
}

type musicRepository interface {
	Create(ctx context.Context, music *models.Music) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Music, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, term string, categoryID *uuid.UUID) ([]models.Music, error)
}

type mediaReleaser interface {
	Delete(ctx context.Context, mediaID uuid.UUID) error
}

// MovieService drives the movie download catalog.
type MovieService interface {
	Create(ctx context.Context, req MovieRequest) (*MovieDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*MovieDTO, error)
	Update(ctx context.Context, id uuid.UUID, req MovieRequest) (*MovieDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, term string, categoryID *uuid.UUID) ([]MovieDTO, error)
}

// MusicService drives the music download catalog.
type MusicService interface {
	Create(ctx context.Context, req MusicRequest) (*MusicDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*MusicDTO, error)
	Update(ctx context.Context, id uuid.UUID, req MusicRequest) (*MusicDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, term string, categoryID *uuid.UUID) ([]MusicDTO, error)
}

// MovieServiceParams bundles the dependencies for the movie catalog.
type MovieServiceParams struct {
	Repo  movieRepository
	Media mediaReleaser
}

type movieService struct {
	repo  movieRepository
	media mediaReleaser
}

// NewMovieService constructs the movie catalog service.
func NewMovieService(params MovieServiceParams) (MovieService, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("movie repository is required")
	}
	if params.Media == nil {
		return nil, fmt.Errorf("media service is required")
	}
	return &movieService{repo: params.Repo, media: params.Media}, nil
}

func (s *movieService) Create(ctx context.Context, req MovieRequest) (*MovieDTO, error) {
	title, link, err := validateEntry(req.Title, req.DownloadLink, req.CategoryID)
	if err != nil {
		return nil, err
	}
	movie := &models.Movie{
		ID:               uuid.New(),
		Title:            title,
		DownloadLink:     link,
		Year:             req.Year,
		CategoryID:       req.CategoryID,
		ThumbnailMediaID: req.ThumbnailMediaID,
	}
	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create movie")
	}
	return movieFromModel(movie), nil
}

func (s *movieService) Get(ctx context.Context, id uuid.UUID) (*MovieDTO, error) {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "movie")
	}
	return movieFromModel(movie), nil
}

func (s *movieService) Update(ctx context.Context, id uuid.UUID, req MovieRequest) (*MovieDTO, error) {
	title, link, err := validateEntry(req.Title, req.DownloadLink, req.CategoryID)
	if err != nil {
		return nil, err
	}
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "movie")
	}

	oldThumb := movie.ThumbnailMediaID
	fields := map[string]any{
		"title":              title,
		"download_link":      link,
		"year":               req.Year,
		"category_id":        req.CategoryID,
		"thumbnail_media_id": req.ThumbnailMediaID,
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update movie")
	}
	// New thumbnail is persisted before the old object is released.
	if err := releaseReplaced(ctx, s.media, oldThumb, req.ThumbnailMediaID); err != nil {
		return nil, err
	}

	movie.Title = title
	movie.DownloadLink = link
	movie.Year = req.Year
	movie.CategoryID = req.CategoryID
	movie.ThumbnailMediaID = req.ThumbnailMediaID
	return movieFromModel(movie), nil
}

func (s *movieService) Delete(ctx context.Context, id uuid.UUID) error {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapLookupErr(err, "movie")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapLookupErr(err, "movie")
	}
	if movie.ThumbnailMediaID != nil {
		if err := s.media.Delete(ctx, *movie.ThumbnailMediaID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release movie thumbnail")
		}
	}
	return nil
}

func (s *movieService) Search(ctx context.Context, term string, categoryID *uuid.UUID) ([]MovieDTO, error) {
	rows, err := s.repo.Search(ctx, term, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search movies")
	}
	return moviesFromModels(rows), nil
}

// MusicServiceParams bundles the dependencies for the music catalog.
type MusicServiceParams struct {
	Repo  musicRepository
	Media mediaReleaser
}

type musicService struct {
	repo  musicRepository
	media mediaReleaser
}

// NewMusicService constructs the music catalog service.
func NewMusicService(params MusicServiceParams) (MusicService, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("music repository is required")
	}
	if params.Media == nil {
		return nil, fmt.Errorf("media service is required")
	}
	return &musicService{repo: params.Repo, media: params.Media}, nil
}

func (s *musicService) Create(ctx context.Context, req MusicRequest) (*MusicDTO, error) {
	title, link, err := validateEntry(req.Title, req.DownloadLink, req.CategoryID)
	if err != nil {
		return nil, err
	}
	music := &models.Music{
		ID:               uuid.New(),
		Title:            title,
		DownloadLink:     link,
		Year:             req.Year,
		CategoryID:       req.CategoryID,
		ThumbnailMediaID: req.ThumbnailMediaID,
		AudioMediaID:     req.AudioMediaID,
	}
	if err := s.repo.Create(ctx, music); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create music")
	}
	return musicFromModel(music), nil
}

func (s *musicService) Get(ctx context.Context, id uuid.UUID) (*MusicDTO, error) {
	music, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "music")
	}
	return musicFromModel(music), nil
}

func (s *musicService) Update(ctx context.Context, id uuid.UUID, req MusicRequest) (*MusicDTO, error) {
	title, link, err := validateEntry(req.Title, req.DownloadLink, req.CategoryID)
	if err != nil {
		return nil, err
	}
	music, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "music")
	}

	oldThumb := music.ThumbnailMediaID
	oldAudio := music.AudioMediaID
	fields := map[string]any{
		"title":              title,
		"download_link":      link,
		"year":               req.Year,
		"category_id":        req.CategoryID,
		"thumbnail_media_id": req.ThumbnailMediaID,
		"audio_media_id":     req.AudioMediaID,
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update music")
	}
	if err := releaseReplaced(ctx, s.media, oldThumb, req.ThumbnailMediaID); err != nil {
		return nil, err
	}
	if err := releaseReplaced(ctx, s.media, oldAudio, req.AudioMediaID); err != nil {
		return nil, err
	}

	music.Title = title
	music.DownloadLink = link
	music.Year = req.Year
	music.CategoryID = req.CategoryID
	music.ThumbnailMediaID = req.ThumbnailMediaID
	music.AudioMediaID = req.AudioMediaID
	return musicFromModel(music), nil
}

func (s *musicService) Delete(ctx context.Context, id uuid.UUID) error {
	music, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapLookupErr(err, "music")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapLookupErr(err, "music")
	}
	for _, mediaID := range []*uuid.UUID{music.ThumbnailMediaID, music.AudioMediaID} {
		if mediaID == nil {
			continue
		}
		if err := s.media.Delete(ctx, *mediaID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release music media")
		}
	}
	return nil
}

func (s *musicService) Search(ctx context.Context, term string, categoryID *uuid.UUID) ([]MusicDTO, error) {
	rows, err := s.repo.Search(ctx, term, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search music")
	}
	return musicFromModels(rows), nil
}

func validateEntry(title, link string, categoryID uuid.UUID) (string, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	link = strings.TrimSpace(link)
	if link == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "download link is required")
	}
	if categoryID == uuid.Nil {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	return title, link, nil
}

func releaseReplaced(ctx context.Context, media mediaReleaser, old, next *uuid.UUID) error {
	if old == nil {
		return nil
	}
	if next != nil && *next == *old {
		return nil
	}
	if err := media.Delete(ctx, *old); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release replaced media")
	}
	return nil
}

func mapLookupErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, entity+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load "+entity)
}
