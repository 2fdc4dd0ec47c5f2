package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/cjnation/cjnation-backend/api/responses"
	"github.com/cjnation/cjnation-backend/api/validators"
	"github.com/cjnation/cjnation-backend/internal/catalog"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/cjnation/cjnation-backend/pkg/logger"
)

func searchFilters(r *http.Request) (string, *uuid.UUID, error) {
	term := validators.SanitizeString(r.URL.Query().Get("text"), 200)
	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("category"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category id")
		}
		categoryID = &parsed
	}
	return term, categoryID, nil
}

// MovieCreate adds a movie entry. Admin-gated by the router.
func MovieCreate(svc catalog.MovieService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "movie service unavailable"))
			return
		}

		var body catalog.MovieRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// MovieGet serves a single movie entry.
func MovieGet(svc catalog.MovieService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "movie service unavailable"))
			return
		}

		movieID, err := pathUUID(r, "movieId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), movieID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MovieUpdate replaces a movie entry. Admin-gated by the router.
func MovieUpdate(svc catalog.MovieService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "movie service unavailable"))
			return
		}

		movieID, err := pathUUID(r, "movieId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body catalog.MovieRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), movieID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MovieDelete removes a movie entry along with its stored media.
func MovieDelete(svc catalog.MovieService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "movie service unavailable"))
			return
		}

		movieID, err := pathUUID(r, "movieId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), movieID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// MovieSearch matches titles case-insensitively; an empty term lists all.
func MovieSearch(svc catalog.MovieService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "movie service unavailable"))
			return
		}

		term, categoryID, err := searchFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Search(r.Context(), term, categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MusicCreate adds a music entry. Admin-gated by the router.
func MusicCreate(svc catalog.MusicService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "music service unavailable"))
			return
		}

		var body catalog.MusicRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// MusicGet serves a single music entry.
func MusicGet(svc catalog.MusicService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "music service unavailable"))
			return
		}

		musicID, err := pathUUID(r, "musicId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), musicID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MusicUpdate replaces a music entry. Admin-gated by the router.
func MusicUpdate(svc catalog.MusicService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "music service unavailable"))
			return
		}

		musicID, err := pathUUID(r, "musicId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body catalog.MusicRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), musicID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MusicDelete removes a music entry along with its stored media.
func MusicDelete(svc catalog.MusicService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "music service unavailable"))
			return
		}

		musicID, err := pathUUID(r, "musicId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), musicID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// MusicSearch matches titles case-insensitively; an empty term lists all.
func MusicSearch(svc catalog.MusicService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "music service unavailable"))
			return
		}

		term, categoryID, err := searchFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Search(r.Context(), term, categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
