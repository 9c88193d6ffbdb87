package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/merybery/merybery-backend/api/responses"
	"github.com/merybery/merybery-backend/api/validators"
	"github.com/merybery/merybery-backend/internal/farms"
	pkgerrors "github.com/merybery/merybery-backend/pkg/errors"
	"github.com/merybery/merybery-backend/pkg/logger"
)

type farmCreateRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    string  `json:"phone" validate:"required,min=1"`
	Location *string `json:"location,omitempty"`
}

func (r farmCreateRequest) toInput() farms.CreateFarmInput {
	return farms.CreateFarmInput{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Location: r.Location,
	}
}

type farmUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=1"`
	Location *string `json:"location,omitempty"`
}

func (r farmUpdateRequest) toInput() farms.UpdateFarmInput {
	return farms.UpdateFarmInput{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Location: r.Location,
	}
}

// FarmCreate registers a seller profile.
func FarmCreate(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farm service unavailable"))
			return
		}

		var payload farmCreateRequest
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

// FarmFetch returns a farm with its varieties and inventory.
func FarmFetch(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farm service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "farmID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid farm id"))
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

// FarmList returns all farm summaries. With an email query parameter it
// resolves a single farm instead.
func FarmList(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farm service unavailable"))
			return
		}

		if email := r.URL.Query().Get("email"); email != "" {
			dto, err := svc.GetByEmail(r.Context(), email)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, []farms.FarmDTO{*dto})
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

// FarmUpdate adjusts the mutable fields of a farm profile.
func FarmUpdate(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farm service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "farmID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid farm id"))
			return
		}

		var payload farmUpdateRequest
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

// FarmDelete removes an empty farm. A farm still holding inventory is
// rejected with a conflict.
func FarmDelete(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farm service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "farmID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid farm id"))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// FarmAddVariety marks a variety as grown by the farm.
func FarmAddVariety(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farm service unavailable"))
			return
		}

		farmID, varietyID, err := farmVarietyParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AddVariety(r.Context(), farmID, varietyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"associated": true})
	}
}

// FarmRemoveVariety unmarks a variety for the farm.
func FarmRemoveVariety(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farm service unavailable"))
			return
		}

		farmID, varietyID, err := farmVarietyParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveVariety(r.Context(), farmID, varietyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"associated": false})
	}
}

func farmVarietyParams(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	farmID, err := uuid.Parse(chi.URLParam(r, "farmID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid farm id")
	}
	varietyID, err := uuid.Parse(chi.URLParam(r, "varietyID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variety id")
	}
	return farmID, varietyID, nil
}
