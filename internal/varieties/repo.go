package varieties

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/merybery/merybery-backend/pkg/db/models"
)

// Repository exposes variety persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a varieties repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new variety row.
func (r *Repository) Create(ctx context.Context, variety *models.Variety) (*models.Variety, error) {
	if err := r.db.WithContext(ctx).Create(variety).Error; err != nil {
		return nil, err
	}
	return variety, nil
}

// FindByID loads a variety by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Variety, error) {
	var variety models.Variety
	if err := r.db.WithContext(ctx).First(&variety, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variety, nil
}

// FindByName retrieves the variety with the provided name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Variety, error) {
	var variety models.Variety
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&variety).Error; err != nil {
		return nil, err
	}
	return &variety, nil
}

// List returns all varieties ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Variety, error) {
	var rows []models.Variety
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the full variety row.
func (r *Repository) Update(ctx context.Context, variety *models.Variety) (*models.Variety, error) {
	if err := r.db.WithContext(ctx).Save(variety).Error; err != nil {
		return nil, err
	}
	return variety, nil
}

// Delete removes a variety by ID, reporting whether a row existed. Join rows
// for farm associations are removed in the same transaction.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("variety_id = ?", id).Delete(&models.FarmVariety{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Variety{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CountInventory returns the number of inventory rows referencing the variety.
func (r *Repository) CountInventory(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("variety_id = ?", id).
		Count(&count).Error
	return count, err
}
