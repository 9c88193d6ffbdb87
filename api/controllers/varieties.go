package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/merybery/merybery-backend/api/responses"
	"github.com/merybery/merybery-backend/api/validators"
	"github.com/merybery/merybery-backend/internal/varieties"
	pkgerrors "github.com/merybery/merybery-backend/pkg/errors"
	"github.com/merybery/merybery-backend/pkg/logger"
)

type varietyCreateRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

type varietyUpdateRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1"`
}

// VarietyCreate registers a flower variety in the catalog.
func VarietyCreate(svc varieties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "variety service unavailable"))
			return
		}

		var payload varietyCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), varieties.CreateVarietyInput{Name: payload.Name})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// VarietyFetch returns one variety by ID.
func VarietyFetch(svc varieties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "variety service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "varietyID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variety id"))
			return
		}

		dto, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// VarietyList returns the catalog. With a name query parameter it resolves
// a single variety instead.
func VarietyList(svc varieties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "variety service unavailable"))
			return
		}

		if name := r.URL.Query().Get("name"); name != "" {
			dto, err := svc.GetByName(r.Context(), name)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, []varieties.VarietyDTO{*dto})
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// VarietyUpdate renames a variety.
func VarietyUpdate(svc varieties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "variety service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "varietyID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variety id"))
			return
		}

		var payload varietyUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), id, varieties.UpdateVarietyInput{Name: payload.Name})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// VarietyDelete removes an unstocked variety from the catalog.
func VarietyDelete(svc varieties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "variety service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "varietyID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variety id"))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
