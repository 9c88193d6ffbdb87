package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is the priced, counted stock of one variety held by one farm.
// At most one row exists per (farm, variety) pair and count never goes
// negative.
type InventoryItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FarmID    uuid.UUID       `gorm:"column:farm_id;type:uuid;not null;uniqueIndex:uq_inventory_farm_variety"`
	VarietyID uuid.UUID       `gorm:"column:variety_id;type:uuid;not null;uniqueIndex:uq_inventory_farm_variety"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Count     int             `gorm:"column:count;not null;default:0"`
	Variety   *Variety        `gorm:"foreignKey:VarietyID"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
