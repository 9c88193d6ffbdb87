package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/merybery/merybery-backend/api/responses"
	"github.com/merybery/merybery-backend/api/validators"
	"github.com/merybery/merybery-backend/internal/users"
	pkgerrors "github.com/merybery/merybery-backend/pkg/errors"
	"github.com/merybery/merybery-backend/pkg/logger"
)

type userCreateRequest struct {
	ExternalID string  `json:"external_id" validate:"required,min=1"`
	Email      string  `json:"email" validate:"required,email"`
	Name       string  `json:"name" validate:"required,min=1"`
	Location   *string `json:"location,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

func (r userCreateRequest) toInput() users.CreateUserInput {
	return users.CreateUserInput{
		ExternalID: r.ExternalID,
		Email:      r.Email,
		Name:       r.Name,
		Location:   r.Location,
		Phone:      r.Phone,
	}
}

type userUpdateRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Location *string `json:"location,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func (r userUpdateRequest) toInput() users.UpdateUserInput {
	return users.UpdateUserInput{
		Email:    r.Email,
		Name:     r.Name,
		Location: r.Location,
		Phone:    r.Phone,
	}
}

// UserCreate registers a buyer account keyed by its external identity.
func UserCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		var payload userCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// UserFetch resolves a user by external identity, or by email when the
// lookup query parameter is present.
func UserFetch(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		externalID := chi.URLParam(r, "externalID")
		dto, err := svc.GetByExternalID(r.Context(), externalID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// UserLookup resolves a user by email.
func UserLookup(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		email := r.URL.Query().Get("email")
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "email query parameter required"))
			return
		}

		dto, err := svc.GetByEmail(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// UserUpdate adjusts the mutable fields of a user profile.
func UserUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		var payload userUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// UserDelete removes a user account.
func UserDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
