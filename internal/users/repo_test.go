package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/merybery/merybery-backend/pkg/db"
	"github.com/merybery/merybery-backend/pkg/db/models"
	pkgerrors "github.com/merybery/merybery-backend/pkg/errors"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  external_id TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  location TEXT,
  phone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, gdb.Exec(users).Error)
	return gdb
}

func newUser(externalID, email string) *models.User {
	return &models.User{
		ID:         uuid.New(),
		ExternalID: externalID,
		Email:      email,
		Name:       "Mery",
	}
}

func TestRepositoryCreate_duplicateExternalIDFails(t *testing.T) {
	gdb := setupUserTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("auth0|123", "first@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("auth0|123", "second@example.com"))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))

	// The existing row is untouched by the rejected insert.
	existing, err := repo.FindByExternalID(ctx, "auth0|123")
	require.NoError(t, err)
	assert.Equal(t, "first@example.com", existing.Email)
	assert.Equal(t, "Mery", existing.Name)
}

func TestRepositoryCreate_duplicateEmailFails(t *testing.T) {
	gdb := setupUserTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("auth0|123", "shared@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("auth0|456", "shared@example.com"))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))

	var total int64
	require.NoError(t, gdb.Model(&models.User{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestServiceCreateDuplicateAgainstDatabase(t *testing.T) {
	gdb := setupUserTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)
	ctx := context.Background()

	input := CreateUserInput{ExternalID: "auth0|123", Email: "user@example.com", Name: "Mery"}
	_, err = svc.Create(ctx, input)
	require.NoError(t, err)

	_, err = svc.Create(ctx, input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRepositoryDelete_reportsMissingRow(t *testing.T) {
	gdb := setupUserTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	created, err := repo.Create(ctx, newUser("auth0|123", "user@example.com"))
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
