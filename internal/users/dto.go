package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/merybery/merybery-backend/pkg/db/models"
)

// UserDTO is the transport shape for a user record.
type UserDTO struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Location   *string   `json:"location,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:         u.ID,
		ExternalID: u.ExternalID,
		Email:      u.Email,
		Name:       u.Name,
		Location:   u.Location,
		Phone:      u.Phone,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
