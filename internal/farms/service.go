package farms

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/merybery/merybery-backend/pkg/db"
	"github.com/merybery/merybery-backend/pkg/db/models"
	pkgerrors "github.com/merybery/merybery-backend/pkg/errors"
)

type farmRepository interface {
	Create(ctx context.Context, farm *models.Farm) (*models.Farm, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	FindByEmail(ctx context.Context, email string) (*models.Farm, error)
	List(ctx context.Context) ([]models.Farm, error)
	Update(ctx context.Context, farm *models.Farm) (*models.Farm, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Associate(ctx context.Context, farmID, varietyID uuid.UUID) error
	Dissociate(ctx context.Context, farmID, varietyID uuid.UUID) error
	CountInventory(ctx context.Context, id uuid.UUID) (int64, error)
}

// Service exposes farm profile and variety association operations.
type Service interface {
	Create(ctx context.Context, input CreateFarmInput) (*FarmDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*FarmDetailDTO, error)
	GetByEmail(ctx context.Context, email string) (*FarmDTO, error)
	List(ctx context.Context) ([]FarmDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateFarmInput) (*FarmDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddVariety(ctx context.Context, farmID, varietyID uuid.UUID) error
	RemoveVariety(ctx context.Context, farmID, varietyID uuid.UUID) error
}

// CreateFarmInput carries the fields accepted when registering a farm.
type CreateFarmInput struct {
	Name     *string
	Email    string
	Phone    string
	Location *string
}

// UpdateFarmInput carries optional fields for a farm update. Nil fields are
// left untouched.
type UpdateFarmInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Location *string
}

type service struct {
	repo farmRepository
}

// NewService wires a farm service around its repository.
func NewService(repo farmRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "farms: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateFarmInput) (*FarmDTO, error) {
	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	farm := &models.Farm{
		Name:     cloneStringPtr(input.Name),
		Email:    email,
		Phone:    phone,
		Location: cloneStringPtr(input.Location),
	}
	created, err := s.repo.Create(ctx, farm)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_farms_email") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a farm with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create farm")
	}
	return FromModel(created), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*FarmDetailDTO, error) {
	farm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	return DetailFromModel(farm), nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*FarmDTO, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	farm, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	return FromModel(farm), nil
}

func (s *service) List(ctx context.Context) ([]FarmDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farms")
	}
	return FromModels(rows), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateFarmInput) (*FarmDTO, error) {
	farm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		farm.Email = email
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone cannot be empty")
		}
		farm.Phone = phone
	}
	if input.Name != nil {
		farm.Name = cloneStringPtr(input.Name)
	}
	if input.Location != nil {
		farm.Location = cloneStringPtr(input.Location)
	}

	// Preloaded relations must not be written back through Save.
	farm.Varieties = nil
	farm.InventoryItems = nil

	updated, err := s.repo.Update(ctx, farm)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_farms_email") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a farm with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update farm")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	stocked, err := s.repo.CountInventory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check farm inventory")
	}
	if stocked > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "farm still has inventory records")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete farm")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
	}
	return nil
}

// AddVariety records that the farm grows the variety. Repeating the call
// leaves the association unchanged.
func (s *service) AddVariety(ctx context.Context, farmID, varietyID uuid.UUID) error {
	if err := s.repo.Associate(ctx, farmID, varietyID); err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "farm or variety not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "associate variety")
	}
	return nil
}

// RemoveVariety drops the association. Removing a pair that was never
// recorded succeeds as long as the farm exists.
func (s *service) RemoveVariety(ctx context.Context, farmID, varietyID uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, farmID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check farm")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
	}

	if err := s.repo.Dissociate(ctx, farmID, varietyID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dissociate variety")
	}
	return nil
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
