package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/merybery/merybery-backend/pkg/db/models"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	farms := `
CREATE TABLE IF NOT EXISTS farms (
  id TEXT PRIMARY KEY,
  name TEXT,
  email TEXT NOT NULL UNIQUE,
  phone TEXT NOT NULL,
  location TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	varieties := `
CREATE TABLE IF NOT EXISTS varieties (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	inventoryItems := `
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  farm_id TEXT NOT NULL REFERENCES farms (id),
  variety_id TEXT NOT NULL REFERENCES varieties (id),
  price NUMERIC NOT NULL CHECK (price >= 0),
  count INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0),
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (farm_id, variety_id)
);`
	require.NoError(t, db.Exec(farms).Error)
	require.NoError(t, db.Exec(varieties).Error)
	require.NoError(t, db.Exec(inventoryItems).Error)
	return db
}

func seedStockedFarm(t *testing.T, db *gorm.DB, count int) *models.InventoryItem {
	t.Helper()

	farm := &models.Farm{
		ID:    uuid.New(),
		Email: fmt.Sprintf("%s@bloemen.example", uuid.NewString()[:8]),
		Phone: "+31 6 1234 5678",
	}
	require.NoError(t, db.Create(farm).Error)

	variety := &models.Variety{ID: uuid.New(), Name: uuid.NewString()}
	require.NoError(t, db.Create(variety).Error)

	item := &models.InventoryItem{
		ID:        uuid.New(),
		FarmID:    farm.ID,
		VarietyID: variety.ID,
		Price:     decimal.RequireFromString("1.25"),
		Count:     count,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestRepositoryAdjustCount_appliesDelta(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := seedStockedFarm(t, db, 10)

	adjusted, err := repo.AdjustCount(ctx, item.ID, -3)
	require.NoError(t, err)
	assert.True(t, adjusted)

	loaded, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Count)
}

func TestRepositoryAdjustCount_rejectsNegativeResult(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := seedStockedFarm(t, db, 7)

	adjusted, err := repo.AdjustCount(ctx, item.ID, -100)
	require.NoError(t, err)
	assert.False(t, adjusted)

	loaded, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Count)
}

func TestRepositoryAdjustCount_missingRow(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)

	adjusted, err := repo.AdjustCount(context.Background(), uuid.New(), 1)
	require.NoError(t, err)
	assert.False(t, adjusted)
}

func TestRepositoryCreate_secondRowForPairFails(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := seedStockedFarm(t, db, 5)

	_, err := repo.Create(ctx, &models.InventoryItem{
		ID:        uuid.New(),
		FarmID:    item.FarmID,
		VarietyID: item.VarietyID,
		Price:     decimal.RequireFromString("2.00"),
		Count:     1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")
}

func TestRepositoryFindByID_preloadsVariety(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)

	item := seedStockedFarm(t, db, 3)

	loaded, err := repo.FindByID(context.Background(), item.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Variety)
	assert.Equal(t, item.VarietyID, loaded.Variety.ID)
	assert.True(t, loaded.Price.Equal(decimal.RequireFromString("1.25")))
}
