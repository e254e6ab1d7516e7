package service

import (
	"context"
	"testing"

	"stolik/internal/database"
	"stolik/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateTable(t *testing.T) {
	repo := new(mockRepo)
	svc := NewTableService(repo, testLogger())
	ctx := context.Background()

	repo.On("GetTableByNumber", ctx, int64(5)).Return(nil, database.ErrTableNotFound)
	repo.On("CreateTable", ctx, mock.AnythingOfType("*models.Table")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Table).ID = 9
	}).Return(nil)

	table, err := svc.CreateTable(ctx, 5, 4, "terrace", true)
	require.NoError(t, err)
	assert.Equal(t, int64(9), table.ID)
	assert.True(t, table.IsActive)
	repo.AssertExpectations(t)
}

func TestCreateTableInvalid(t *testing.T) {
	repo := new(mockRepo)
	svc := NewTableService(repo, testLogger())

	_, err := svc.CreateTable(context.Background(), 0, 4, "terrace", true)
	assert.ErrorIs(t, err, database.ErrInvalidTable)

	_, err = svc.CreateTable(context.Background(), 5, 0, "terrace", true)
	assert.ErrorIs(t, err, database.ErrInvalidTable)
	repo.AssertNotCalled(t, "CreateTable", mock.Anything, mock.Anything)
}

func TestCreateTableDuplicate(t *testing.T) {
	repo := new(mockRepo)
	svc := NewTableService(repo, testLogger())
	ctx := context.Background()

	existing := &models.Table{ID: 1, Number: 5, Capacity: 2, Location: "bar", IsActive: true}
	repo.On("GetTableByNumber", ctx, int64(5)).Return(existing, nil)

	_, err := svc.CreateTable(ctx, 5, 4, "terrace", true)
	assert.ErrorIs(t, err, database.ErrDuplicateTableNumber)
	repo.AssertNotCalled(t, "CreateTable", mock.Anything, mock.Anything)
}

func TestUpdateTablePartial(t *testing.T) {
	repo := new(mockRepo)
	svc := NewTableService(repo, testLogger())
	ctx := context.Background()

	current := &models.Table{ID: 1, Number: 5, Capacity: 2, Location: "bar", IsActive: true}
	repo.On("GetTable", ctx, int64(1)).Return(current, nil)
	repo.On("UpdateTable", ctx, mock.AnythingOfType("*models.Table")).Return(nil)

	capacity := int64(6)
	inactive := false
	updated, err := svc.UpdateTable(ctx, 1, TableUpdate{Capacity: &capacity, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, int64(6), updated.Capacity)
	assert.False(t, updated.IsActive)
	// Untouched fields survive.
	assert.Equal(t, int64(5), updated.Number)
	assert.Equal(t, "bar", updated.Location)
}

func TestUpdateTableNumberTaken(t *testing.T) {
	repo := new(mockRepo)
	svc := NewTableService(repo, testLogger())
	ctx := context.Background()

	current := &models.Table{ID: 1, Number: 5, Capacity: 2, Location: "bar", IsActive: true}
	other := &models.Table{ID: 2, Number: 6, Capacity: 2, Location: "bar", IsActive: true}
	repo.On("GetTable", ctx, int64(1)).Return(current, nil)
	repo.On("GetTableByNumber", ctx, int64(6)).Return(other, nil)

	number := int64(6)
	_, err := svc.UpdateTable(ctx, 1, TableUpdate{Number: &number})
	assert.ErrorIs(t, err, database.ErrDuplicateTableNumber)
}
