package farms

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

	"github.com/merybery/merybery-backend/internal/inventory"
	"github.com/merybery/merybery-backend/pkg/db/models"
	pkgerrors "github.com/merybery/merybery-backend/pkg/errors"
)

func setupFarmsTestDB(t *testing.T) *gorm.DB {
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
	varietiesDDL := `
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
	farmVarieties := `
CREATE TABLE IF NOT EXISTS farm_varieties (
  farm_id TEXT NOT NULL,
  variety_id TEXT NOT NULL,
  PRIMARY KEY (farm_id, variety_id)
);`
	require.NoError(t, db.Exec(farms).Error)
	require.NoError(t, db.Exec(varietiesDDL).Error)
	require.NoError(t, db.Exec(inventoryItems).Error)
	require.NoError(t, db.Exec(farmVarieties).Error)
	return db
}

func newFarm(t *testing.T, db *gorm.DB, email string) *models.Farm {
	t.Helper()

	farm := &models.Farm{
		ID:    uuid.New(),
		Email: email,
		Phone: "+31 6 1234 5678",
	}
	require.NoError(t, db.Create(farm).Error)
	return farm
}

func newVariety(t *testing.T, db *gorm.DB, name string) *models.Variety {
	t.Helper()

	variety := &models.Variety{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(variety).Error)
	return variety
}

func TestRepositoryAssociate_repeatedCallsKeepOneRow(t *testing.T) {
	db := setupFarmsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	farm := newFarm(t, db, "tulips@bloemen.example")
	variety := newVariety(t, db, "Red Naomi")

	require.NoError(t, repo.Associate(ctx, farm.ID, variety.ID))
	require.NoError(t, repo.Associate(ctx, farm.ID, variety.ID))

	var count int64
	require.NoError(t, db.Model(&models.FarmVariety{}).
		Where("farm_id = ?", farm.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryDissociate_absentPairIsNoop(t *testing.T) {
	db := setupFarmsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	farm := newFarm(t, db, "roses@bloemen.example")
	variety := newVariety(t, db, "Avalanche")

	require.NoError(t, repo.Associate(ctx, farm.ID, variety.ID))
	require.NoError(t, repo.Dissociate(ctx, farm.ID, variety.ID))
	require.NoError(t, repo.Dissociate(ctx, farm.ID, variety.ID))

	var count int64
	require.NoError(t, db.Model(&models.FarmVariety{}).
		Where("farm_id = ?", farm.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRepositoryFindByID_preloadsRelations(t *testing.T) {
	db := setupFarmsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	farm := newFarm(t, db, "lilies@bloemen.example")
	naomi := newVariety(t, db, "Red Naomi")
	avalanche := newVariety(t, db, "Avalanche")

	require.NoError(t, repo.Associate(ctx, farm.ID, naomi.ID))
	require.NoError(t, repo.Associate(ctx, farm.ID, avalanche.ID))

	item := &models.InventoryItem{
		ID:        uuid.New(),
		FarmID:    farm.ID,
		VarietyID: naomi.ID,
		Count:     10,
	}
	require.NoError(t, db.Create(item).Error)

	loaded, err := repo.FindByID(ctx, farm.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Varieties, 2)
	assert.Equal(t, "Avalanche", loaded.Varieties[0].Name)
	assert.Equal(t, "Red Naomi", loaded.Varieties[1].Name)
	require.Len(t, loaded.InventoryItems, 1)
	require.NotNil(t, loaded.InventoryItems[0].Variety)
	assert.Equal(t, "Red Naomi", loaded.InventoryItems[0].Variety.Name)
}

// Walks the grow-and-sell flow end to end: associate a variety, stock it,
// sell three stems, fail to oversell, and read the farm detail back with the
// adjusted count embedded.
func TestFarmDetailReflectsAdjustedStock(t *testing.T) {
	db := setupFarmsTestDB(t)
	ctx := context.Background()

	farmSvc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	invSvc, err := inventory.NewService(inventory.NewRepository(db))
	require.NoError(t, err)

	farm := newFarm(t, db, "dahlias@bloemen.example")
	variety := newVariety(t, db, "Cafe au Lait")
	require.NoError(t, farmSvc.AddVariety(ctx, farm.ID, variety.ID))

	item := &models.InventoryItem{
		ID:        uuid.New(),
		FarmID:    farm.ID,
		VarietyID: variety.ID,
		Price:     decimal.RequireFromString("2.50"),
		Count:     10,
	}
	require.NoError(t, db.Create(item).Error)

	sold, err := invSvc.AdjustCount(ctx, item.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 7, sold.Count)

	_, err = invSvc.AdjustCount(ctx, item.ID, -100)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	detail, err := farmSvc.GetByID(ctx, farm.ID)
	require.NoError(t, err)
	require.Len(t, detail.Varieties, 1)
	assert.Equal(t, "Cafe au Lait", detail.Varieties[0].Name)
	require.Len(t, detail.Inventory, 1)
	assert.Equal(t, 7, detail.Inventory[0].Count)
	require.NotNil(t, detail.Inventory[0].Variety)
	assert.Equal(t, "Cafe au Lait", detail.Inventory[0].Variety.Name)
}

func TestRepositoryDelete_removesAssociationRows(t *testing.T) {
	db := setupFarmsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	farm := newFarm(t, db, "peonies@bloemen.example")
	variety := newVariety(t, db, "Sarah Bernhardt")
	require.NoError(t, repo.Associate(ctx, farm.ID, variety.ID))

	deleted, err := repo.Delete(ctx, farm.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var count int64
	require.NoError(t, db.Model(&models.FarmVariety{}).
		Where("farm_id = ?", farm.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	deleted, err = repo.Delete(ctx, farm.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
