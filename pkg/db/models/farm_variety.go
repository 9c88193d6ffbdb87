package models

import "github.com/google/uuid"

// FarmVariety is the "farm grows variety" membership row, independent of
// whether inventory currently exists for the pair.
type FarmVariety struct {
	FarmID    uuid.UUID `gorm:"column:farm_id;type:uuid;primaryKey"`
	VarietyID uuid.UUID `gorm:"column:variety_id;type:uuid;primaryKey"`
}

func (FarmVariety) TableName() string {
	return "farm_varieties"
}
