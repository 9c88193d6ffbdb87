package farms

import (
	"time"

	"github.com/google/uuid"

	"github.com/merybery/merybery-backend/internal/inventory"
	"github.com/merybery/merybery-backend/internal/varieties"
	"github.com/merybery/merybery-backend/pkg/db/models"
)

// FarmDTO is the wire representation of a farm without its relations.
type FarmDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      *string   `json:"name,omitempty"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Location  *string   `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FarmDetailDTO extends FarmDTO with the grown varieties and the farm's
// inventory records.
type FarmDetailDTO struct {
	FarmDTO
	Varieties []varieties.VarietyDTO       `json:"varieties"`
	Inventory []inventory.InventoryItemDTO `json:"inventory"`
}

// FromModel maps a farm row to its summary DTO.
func FromModel(f *models.Farm) *FarmDTO {
	if f == nil {
		return nil
	}
	return &FarmDTO{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		Location:  f.Location,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// FromModels maps a slice of farm rows to summary DTOs.
func FromModels(rows []models.Farm) []FarmDTO {
	out := make([]FarmDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

// DetailFromModel maps a preloaded farm row to its detail DTO.
func DetailFromModel(f *models.Farm) *FarmDetailDTO {
	if f == nil {
		return nil
	}
	return &FarmDetailDTO{
		FarmDTO:   *FromModel(f),
		Varieties: varieties.FromModels(f.Varieties),
		Inventory: inventory.FromModels(f.InventoryItems),
	}
}
