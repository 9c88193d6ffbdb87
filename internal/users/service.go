package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/merybery/merybery-backend/pkg/db"
	"github.com/merybery/merybery-backend/pkg/db/models"
	pkgerrors "github.com/merybery/merybery-backend/pkg/errors"
)

type userRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service exposes user record operations.
type Service interface {
	Create(ctx context.Context, input CreateUserInput) (*UserDTO, error)
	GetByExternalID(ctx context.Context, externalID string) (*UserDTO, error)
	GetByEmail(ctx context.Context, email string) (*UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateUserInput holds the validated payload to register a user record.
type CreateUserInput struct {
	ExternalID string
	Email      string
	Name       string
	Location   *string
	Phone      *string
}

// UpdateUserInput lists the user fields that may be changed. Fields left nil
// are untouched; unknown fields never reach this struct.
type UpdateUserInput struct {
	Email    *string
	Name     *string
	Location *string
	Phone    *string
}

type service struct {
	repo userRepository
}

// NewService builds a user service with the provided repository.
func NewService(repo userRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	externalID := strings.TrimSpace(input.ExternalID)
	email := strings.TrimSpace(input.Email)
	name := strings.TrimSpace(input.Name)
	if externalID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "external_id is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	user := &models.User{
		ExternalID: externalID,
		Email:      email,
		Name:       name,
		Location:   input.Location,
		Phone:      input.Phone,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "external identity or email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(created), nil
}

func (s *service) GetByExternalID(ctx context.Context, externalID string) (*UserDTO, error) {
	user, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*UserDTO, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		user.Email = email
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		user.Name = name
	}
	if input.Location != nil {
		user.Location = cloneStringPtr(input.Location)
	}
	if input.Phone != nil {
		user.Phone = cloneStringPtr(input.Phone)
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
