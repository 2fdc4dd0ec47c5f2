package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMovie(t *testing.T, db *gorm.DB, title string, categoryID uuid.UUID, createdAt time.Time) *models.Movie {
	t.Helper()
	movie := &models.Movie{
		ID:           uuid.New(),
		Title:        title,
		DownloadLink: "https://downloads.example.com/" + uuid.NewString(),
		Year:         2024,
		CategoryID:   categoryID,
		CreatedAt:    createdAt,
	}
	require.NoError(t, db.Create(movie).Error)
	return movie
}

func TestMovieRepositorySearchMatchesTitleCaseInsensitively(t *testing.T) {
	db := newTestDB(t)
	repo := NewMovieRepository(db)
	ctx := context.Background()
	category := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	seedMovie(t, db, "The Dark Tower", category, base)
	seedMovie(t, db, "Darkness Falls", category, base.Add(time.Minute))
	seedMovie(t, db, "Sunny Days", category, base.Add(2*time.Minute))

	rows, err := repo.Search(ctx, "dark", nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Darkness Falls", rows[0].Title)
	assert.Equal(t, "The Dark Tower", rows[1].Title)
}

func TestMovieRepositorySearchFiltersByCategory(t *testing.T) {
	db := newTestDB(t)
	repo := NewMovieRepository(db)
	ctx := context.Background()

	action := uuid.New()
	drama := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)
	seedMovie(t, db, "Heat Wave", action, base)
	seedMovie(t, db, "Quiet Rooms", drama, base.Add(time.Minute))

	rows, err := repo.Search(ctx, "", &action)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Heat Wave", rows[0].Title)
}

func TestMovieRepositorySearchEmptyTermReturnsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewMovieRepository(db)
	ctx := context.Background()
	category := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	oldest := seedMovie(t, db, "First Release", category, base)
	newest := seedMovie(t, db, "Second Release", category, base.Add(time.Minute))

	rows, err := repo.Search(ctx, "   ", nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.Equal(t, oldest.ID, rows[1].ID)
}

func TestMovieRepositoryUpdateChangesOnlyGivenColumns(t *testing.T) {
	db := newTestDB(t)
	repo := NewMovieRepository(db)
	ctx := context.Background()

	movie := seedMovie(t, db, "Working Title", uuid.New(), time.Now().UTC())
	require.NoError(t, repo.Update(ctx, movie.ID, map[string]any{"title": "Final Title"}))

	got, err := repo.FindByID(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final Title", got.Title)
	assert.Equal(t, movie.DownloadLink, got.DownloadLink)
}

func TestMovieRepositoryDeleteMissingRowReportsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewMovieRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMusicRepositorySearchMatchesTitle(t *testing.T) {
	db := newTestDB(t)
	repo := NewMusicRepository(db)
	ctx := context.Background()

	track := &models.Music{
		ID:           uuid.New(),
		Title:        "Midnight Drive",
		DownloadLink: "https://downloads.example.com/midnight",
		CategoryID:   uuid.New(),
	}
	require.NoError(t, db.Create(track).Error)

	rows, err := repo.Search(ctx, "MIDNIGHT", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, track.ID, rows[0].ID)
}
