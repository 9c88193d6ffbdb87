package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/merybery/merybery-backend/internal/varieties"
	"github.com/merybery/merybery-backend/pkg/db/models"
)

// InventoryItemDTO is the wire representation of a farm's stock record for
// one variety.
type InventoryItemDTO struct {
	ID        uuid.UUID             `json:"id"`
	FarmID    uuid.UUID             `json:"farm_id"`
	VarietyID uuid.UUID             `json:"variety_id"`
	Variety   *varieties.VarietyDTO `json:"variety,omitempty"`
	Price     decimal.Decimal       `json:"price"`
	Count     int                   `json:"count"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// FromModel maps an inventory row to its DTO, carrying the variety when
// preloaded.
func FromModel(item *models.InventoryItem) *InventoryItemDTO {
	if item == nil {
		return nil
	}
	return &InventoryItemDTO{
		ID:        item.ID,
		FarmID:    item.FarmID,
		VarietyID: item.VarietyID,
		Variety:   varieties.FromModel(item.Variety),
		Price:     item.Price,
		Count:     item.Count,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// FromModels maps a slice of inventory rows.
func FromModels(rows []models.InventoryItem) []InventoryItemDTO {
	out := make([]InventoryItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
