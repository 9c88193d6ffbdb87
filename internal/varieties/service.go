package varieties

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

type varietyRepository interface {
	Create(ctx context.Context, variety *models.Variety) (*models.Variety, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Variety, error)
	FindByName(ctx context.Context, name string) (*models.Variety, error)
	List(ctx context.Context) ([]models.Variety, error)
	Update(ctx context.Context, variety *models.Variety) (*models.Variety, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	CountInventory(ctx context.Context, id uuid.UUID) (int64, error)
}

// Service exposes variety catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateVarietyInput) (*VarietyDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*VarietyDTO, error)
	GetByName(ctx context.Context, name string) (*VarietyDTO, error)
	List(ctx context.Context) ([]VarietyDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateVarietyInput) (*VarietyDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateVarietyInput carries the fields accepted when registering a variety.
type CreateVarietyInput struct {
	Name string
}

// UpdateVarietyInput carries optional fields for a variety update.
type UpdateVarietyInput struct {
	Name *string
}

type service struct {
	repo varietyRepository
}

// NewService wires a variety service around its repository.
func NewService(repo varietyRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "varieties: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateVarietyInput) (*VarietyDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	created, err := s.repo.Create(ctx, &models.Variety{Name: name})
	if err != nil {
		if db.IsUniqueViolation(err, "uq_varieties_name") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a variety with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create variety")
	}
	return FromModel(created), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*VarietyDTO, error) {
	variety, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variety not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variety")
	}
	return FromModel(variety), nil
}

func (s *service) GetByName(ctx context.Context, name string) (*VarietyDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	variety, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variety not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variety")
	}
	return FromModel(variety), nil
}

func (s *service) List(ctx context.Context) ([]VarietyDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list varieties")
	}
	return FromModels(rows), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateVarietyInput) (*VarietyDTO, error) {
	variety, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variety not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variety")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		variety.Name = name
	}

	updated, err := s.repo.Update(ctx, variety)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_varieties_name") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a variety with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update variety")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	stocked, err := s.repo.CountInventory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check variety inventory")
	}
	if stocked > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "variety still has inventory records")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete variety")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "variety not found")
	}
	return nil
}
