package models

import (
	"time"

	"github.com/google/uuid"
)

// Farm represents a grower. Inventory rows are owned by the farm but deleting
// a farm is blocked while they exist; variety associations cascade.
type Farm struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           *string         `gorm:"column:name"`
	Email          string          `gorm:"column:email;type:text;not null;uniqueIndex:uq_farms_email"`
	Phone          string          `gorm:"column:phone;not null"`
	Location       *string         `gorm:"column:location"`
	Varieties      []Variety       `gorm:"many2many:farm_varieties;constraint:OnDelete:CASCADE"`
	InventoryItems []InventoryItem `gorm:"foreignKey:FarmID;constraint:OnDelete:RESTRICT"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
