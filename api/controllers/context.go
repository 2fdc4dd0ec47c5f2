package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cjnation/cjnation-backend/api/middleware"
	"github.com/cjnation/cjnation-backend/pkg/enums"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
)

// requestActor resolves the authenticated caller seeded by the auth middleware.
func requestActor(r *http.Request) (uuid.UUID, enums.UserRole, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, enums.UserRole(middleware.RoleFromContext(r.Context())), nil
}

// optionalActor resolves the caller on routes that serve anonymous traffic too.
func optionalActor(r *http.Request) (uuid.UUID, enums.UserRole) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, ""
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ""
	}
	return userID, enums.UserRole(middleware.RoleFromContext(r.Context()))
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+param).
			WithDetails(map[string]any{"field": param})
	}
	return id, nil
}
