package database

import (
	"context"
	"testing"

	"stolik/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetTable(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	table := &models.Table{Number: 5, Capacity: 6, Location: "terrace", IsActive: true}
	require.NoError(t, db.CreateTable(ctx, table))
	require.NotZero(t, table.ID)

	got, err := db.GetTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Number)
	assert.Equal(t, int64(6), got.Capacity)
	assert.Equal(t, "terrace", got.Location)
	assert.True(t, got.IsActive)

	byNumber, err := db.GetTableByNumber(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, table.ID, byNumber.ID)
}

func TestCreateTableDuplicateNumber(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateTable(ctx, &models.Table{Number: 1, Capacity: 2, Location: "bar", IsActive: true}))

	dup := &models.Table{Number: 1, Capacity: 4, Location: "main hall", IsActive: true}
	assert.ErrorIs(t, db.CreateTable(ctx, dup), ErrDuplicateTableNumber)
}

func TestGetTableNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.GetTable(ctx, 9999)
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = db.GetTableByNumber(ctx, 9999)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestGetAvailableTables(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seed := []*models.Table{
		{Number: 1, Capacity: 2, Location: "bar", IsActive: true},
		{Number: 2, Capacity: 4, Location: "main hall", IsActive: true},
		{Number: 3, Capacity: 8, Location: "main hall", IsActive: true},
		{Number: 4, Capacity: 8, Location: "main hall", IsActive: false},
	}
	for _, table := range seed {
		require.NoError(t, db.CreateTable(ctx, table))
	}

	// Inactive tables never show up.
	available, err := db.GetAvailableTables(ctx, 4, "")
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, int64(2), available[0].Number)
	assert.Equal(t, int64(3), available[1].Number)

	byLocation, err := db.GetAvailableTables(ctx, 2, "bar")
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, int64(1), byLocation[0].Number)
}

func TestUpdateTable(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	table := &models.Table{Number: 1, Capacity: 2, Location: "bar", IsActive: true}
	require.NoError(t, db.CreateTable(ctx, table))

	table.Capacity = 4
	table.IsActive = false
	require.NoError(t, db.UpdateTable(ctx, table))

	got, err := db.GetTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Capacity)
	assert.False(t, got.IsActive)

	missing := &models.Table{ID: 9999, Number: 42, Capacity: 2, Location: "bar"}
	assert.ErrorIs(t, db.UpdateTable(ctx, missing), ErrTableNotFound)
}
