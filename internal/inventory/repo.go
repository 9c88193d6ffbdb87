package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/merybery/merybery-backend/pkg/db/models"
)

// Repository exposes inventory persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an inventory repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new inventory row.
func (r *Repository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads an inventory row with its variety preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Preload("Variety").
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByFarm returns the farm's inventory rows with varieties preloaded.
func (r *Repository) FindByFarm(ctx context.Context, farmID uuid.UUID) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.db.WithContext(ctx).
		Preload("Variety").
		Where("farm_id = ?", farmID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByFarmAndVariety returns the single row for a farm/variety pair.
func (r *Repository) FindByFarmAndVariety(ctx context.Context, farmID, varietyID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Preload("Variety").
		First(&item, "farm_id = ? AND variety_id = ?", farmID, varietyID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update persists the full inventory row.
func (r *Repository) Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an inventory row by ID, reporting whether a row existed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InventoryItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AdjustCount applies a signed delta to the row's count in a single
// conditional UPDATE, so the stored count can never go below zero even under
// concurrent adjustments. Reports whether a row matched.
func (r *Repository) AdjustCount(ctx context.Context, id uuid.UUID, delta int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND count + ? >= 0", id, delta).
		Update("count", gorm.Expr("count + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FarmExists reports whether a farm row exists.
func (r *Repository) FarmExists(ctx context.Context, farmID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Farm{}).
		Where("id = ?", farmID).
		Count(&count).Error
	return count > 0, err
}

// VarietyExists reports whether a variety row exists.
func (r *Repository) VarietyExists(ctx context.Context, varietyID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Variety{}).
		Where("id = ?", varietyID).
		Count(&count).Error
	return count > 0, err
}
