package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
)

// MovieDTO is the transport shape of a movie catalog entry.
type MovieDTO struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	DownloadLink     string     `json:"download_link"`
	Year             int        `json:"year,omitempty"`
	CategoryID       uuid.UUID  `json:"category_id"`
	ThumbnailMediaID *uuid.UUID `json:"thumbnail_media_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// MusicDTO is the transport shape of a music catalog entry.
type MusicDTO struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	DownloadLink     string     `json:"download_link"`
	Year             int        `json:"year,omitempty"`
	CategoryID       uuid.UUID  `json:"category_id"`
	ThumbnailMediaID *uuid.UUID `json:"thumbnail_media_id,omitempty"`
	AudioMediaID     *uuid.UUID `json:"audio_media_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// MovieRequest is the payload for creating or updating a movie.
type MovieRequest struct {
	Title            string     `json:"title" validate:"required,max=200"`
	DownloadLink     string     `json:"download_link" validate:"required,url"`
	Year             int        `json:"year,omitempty"`
	CategoryID       uuid.UUID  `json:"category_id" validate:"required"`
	ThumbnailMediaID *uuid.UUID `json:"thumbnail_media_id,omitempty"`
}

// MusicRequest is the payload for creating or updating a music entry.
type MusicRequest struct {
	Title            string     `json:"title" validate:"required,max=200"`
	DownloadLink     string     `json:"download_link" validate:"required,url"`
	Year             int        `json:"year,omitempty"`
	CategoryID       uuid.UUID  `json:"category_id" validate:"required"`
	ThumbnailMediaID *uuid.UUID `json:"thumbnail_media_id,omitempty"`
	AudioMediaID     *uuid.UUID `json:"audio_media_id,omitempty"`
}

func movieFromModel(m *models.Movie) *MovieDTO {
	if m == nil {
		return nil
	}
	return &MovieDTO{
		ID:               m.ID,
		Title:            m.Title,
		DownloadLink:     m.DownloadLink,
		Year:             m.Year,
		CategoryID:       m.CategoryID,
		ThumbnailMediaID: m.ThumbnailMediaID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func moviesFromModels(rows []models.Movie) []MovieDTO {
	out := make([]MovieDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *movieFromModel(&rows[i]))
	}
	return out
}

func musicFromModel(m *models.Music) *MusicDTO {
	if m == nil {
		return nil
	}
	return &MusicDTO{
		ID:               m.ID,
		Title:            m.Title,
		DownloadLink:     m.DownloadLink,
		Year:             m.Year,
		CategoryID:       m.CategoryID,
		ThumbnailMediaID: m.ThumbnailMediaID,
		AudioMediaID:     m.AudioMediaID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func musicFromModels(rows []models.Music) []MusicDTO {
	out := make([]MusicDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *musicFromModel(&rows[i]))
	}
	return out
}
