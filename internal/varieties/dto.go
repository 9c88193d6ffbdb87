package varieties

import (
	"time"

	"github.com/google/uuid"

	"github.com/merybery/merybery-backend/pkg/db/models"
)

// VarietyDTO is the wire representation of a flower variety.
type VarietyDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel maps a variety row to its DTO.
func FromModel(v *models.Variety) *VarietyDTO {
	if v == nil {
		return nil
	}
	return &VarietyDTO{
		ID:        v.ID,
		Name:      v.Name,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

// FromModels maps a slice of variety rows.
func FromModels(rows []models.Variety) []VarietyDTO {
	out := make([]VarietyDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
