package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/merybery/merybery-backend/pkg/db"
	"github.com/merybery/merybery-backend/pkg/db/models"
	pkgerrors "github.com/merybery/merybery-backend/pkg/errors"
)

type inventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FindByFarm(ctx context.Context, farmID uuid.UUID) ([]models.InventoryItem, error)
	FindByFarmAndVariety(ctx context.Context, farmID, varietyID uuid.UUID) (*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	AdjustCount(ctx context.Context, id uuid.UUID, delta int) (bool, error)
	FarmExists(ctx context.Context, farmID uuid.UUID) (bool, error)
	VarietyExists(ctx context.Context, varietyID uuid.UUID) (bool, error)
}

// Service exposes inventory operations, including the bounded count
// adjustment used by purchases and restocks.
type Service interface {
	Create(ctx context.Context, input CreateInventoryInput) (*InventoryItemDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*InventoryItemDTO, error)
	ListByFarm(ctx context.Context, farmID uuid.UUID) ([]InventoryItemDTO, error)
	GetByFarmAndVariety(ctx context.Context, farmID, varietyID uuid.UUID) (*InventoryItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInventoryInput) (*InventoryItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustCount(ctx context.Context, id uuid.UUID, delta int) (*InventoryItemDTO, error)
}

// CreateInventoryInput carries the fields accepted when recording stock.
type CreateInventoryInput struct {
	FarmID    uuid.UUID
	VarietyID uuid.UUID
	Price     decimal.Decimal
	Count     int
}

// UpdateInventoryInput carries optional fields for an inventory update. The
// count is only changed through AdjustCount.
type UpdateInventoryInput struct {
	Price *decimal.Decimal
}

type service struct {
	repo inventoryRepository
}

// NewService wires an inventory service around its repository.
func NewService(repo inventoryRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "inventory: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInventoryInput) (*InventoryItemDTO, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Count < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "count cannot be negative")
	}

	exists, err := s.repo.FarmExists(ctx, input.FarmID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check farm")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farm does not exist")
	}
	exists, err = s.repo.VarietyExists(ctx, input.VarietyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check variety")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variety does not exist")
	}

	item := &models.InventoryItem{
		FarmID:    input.FarmID,
		VarietyID: input.VarietyID,
		Price:     input.Price,
		Count:     input.Count,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_inventory_farm_variety") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "this farm already has an inventory record for the variety")
		}
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "farm or variety does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory record")
	}
	return s.loadDTO(ctx, created.ID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*InventoryItemDTO, error) {
	return s.loadDTO(ctx, id)
}

func (s *service) ListByFarm(ctx context.Context, farmID uuid.UUID) ([]InventoryItemDTO, error) {
	exists, err := s.repo.FarmExists(ctx, farmID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check farm")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
	}

	rows, err := s.repo.FindByFarm(ctx, farmID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	return FromModels(rows), nil
}

func (s *service) GetByFarmAndVariety(ctx context.Context, farmID, varietyID uuid.UUID) (*InventoryItemDTO, error) {
	item, err := s.repo.FindByFarmAndVariety(ctx, farmID, varietyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory record")
	}
	return FromModel(item), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInventoryInput) (*InventoryItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory record")
	}

	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		item.Price = *input.Price
	}

	item.Variety = nil
	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory record")
	}
	return s.loadDTO(ctx, updated.ID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory record")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
	}
	return nil
}

// AdjustCount applies a signed delta to the record's count. An adjustment
// that would leave the count negative is rejected and the stored count is
// left unchanged.
func (s *service) AdjustCount(ctx context.Context, id uuid.UUID, delta int) (*InventoryItemDTO, error) {
	adjusted, err := s.repo.AdjustCount(ctx, id, delta)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust inventory count")
	}
	if adjusted {
		return s.loadDTO(ctx, id)
	}

	// No row matched. Distinguish a missing record from a rejected delta.
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory record")
	}
	return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "adjustment would make the count negative").
		WithDetails(map[string]any{"count": item.Count, "delta": delta})
}

func (s *service) loadDTO(ctx context.Context, id uuid.UUID) (*InventoryItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory record")
	}
	return FromModel(item), nil
}
