package catalog

import (
	"context"
	"strings"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovieRepository exposes movie persistence operations.
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository constructs a movie repo bound to the provided GORM DB.
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

func (r *MovieRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.WithContext(ctx).First(&movie, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *MovieRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Movie{}).
		Where("id = ?", id).
		UpdateColumns(fields).Error
}

func (r *MovieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Movie{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Search matches titles case-insensitively. An empty term returns the whole
// catalog, newest first.
func (r *MovieRepository) Search(ctx context.Context, term string, categoryID *uuid.UUID) ([]models.Movie, error) {
	query := r.db.WithContext(ctx).Model(&models.Movie{})
	if term = strings.TrimSpace(term); term != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var rows []models.Movie
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MusicRepository exposes music persistence operations.
type MusicRepository struct {
	db *gorm.DB
}

// NewMusicRepository constructs a music repo bound to the provided GORM DB.
func NewMusicRepository(db *gorm.DB) *MusicRepository {
	return &MusicRepository{db: db}
}

func (r *MusicRepository) Create(ctx context.Context, music *models.Music) error {
	return r.db.WithContext(ctx).Create(music).Error
}

func (r *MusicRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Music, error) {
	var music models.Music
	if err := r.db.WithContext(ctx).First(&music, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &music, nil
}

func (r *MusicRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Music{}).
		Where("id = ?", id).
		UpdateColumns(fields).Error
}

func (r *MusicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Music{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Search matches titles case-insensitively. An empty term returns the whole
// catalog, newest first.
func (r *MusicRepository) Search(ctx context.Context, term string, categoryID *uuid.UUID) ([]models.Music, error) {
	query := r.db.WithContext(ctx).Model(&models.Music{})
	if term = strings.TrimSpace(term); term != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var rows []models.Music
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
