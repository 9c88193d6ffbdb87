package farms

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/merybery/merybery-backend/pkg/db/models"
)

// Repository exposes farm persistence operations, including the
// farm-to-variety association table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a farms repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new farm row.
func (r *Repository) Create(ctx context.Context, farm *models.Farm) (*models.Farm, error) {
	if err := r.db.WithContext(ctx).Create(farm).Error; err != nil {
		return nil, err
	}
	return farm, nil
}

// FindByID loads a farm with its grown varieties and inventory preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	err := r.db.WithContext(ctx).
		Preload("Varieties", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("varieties.name ASC")
		}).
		Preload("InventoryItems.Variety").
		First(&farm, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &farm, nil
}

// FindByEmail retrieves the farm registered under the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Farm, error) {
	var farm models.Farm
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&farm).Error; err != nil {
		return nil, err
	}
	return &farm, nil
}

// List returns all farms ordered by creation time, without preloads.
func (r *Repository) List(ctx context.Context) ([]models.Farm, error) {
	var rows []models.Farm
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the full farm row.
func (r *Repository) Update(ctx context.Context, farm *models.Farm) (*models.Farm, error) {
	if err := r.db.WithContext(ctx).Save(farm).Error; err != nil {
		return nil, err
	}
	return farm, nil
}

// Delete removes a farm by ID, reporting whether a row existed. Association
// rows are removed in the same transaction.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("farm_id = ?", id).Delete(&models.FarmVariety{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Farm{})
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

// Exists reports whether a farm row exists.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Farm{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// Associate records that the farm grows the variety. Inserting an existing
// pair is a no-op, so repeated calls converge to the same state.
func (r *Repository) Associate(ctx context.Context, farmID, varietyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.FarmVariety{FarmID: farmID, VarietyID: varietyID}).Error
}

// Dissociate removes the farm-variety pair. Removing an absent pair is a
// no-op.
func (r *Repository) Dissociate(ctx context.Context, farmID, varietyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("farm_id = ? AND variety_id = ?", farmID, varietyID).
		Delete(&models.FarmVariety{}).Error
}

// CountInventory returns the number of inventory rows owned by the farm.
func (r *Repository) CountInventory(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("farm_id = ?", id).
		Count(&count).Error
	return count, err
}
