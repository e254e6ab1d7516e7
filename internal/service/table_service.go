package service

import (
	"context"
	"errors"

	"stolik/internal/database"
	"stolik/internal/domain"
	"stolik/internal/models"

	"github.com/rs/zerolog"
)

// TableService manages the restaurant floor plan.
type TableService struct {
	repo   domain.Repository
	logger zerolog.Logger
}

func NewTableService(repo domain.Repository, logger *zerolog.Logger) *TableService {
	return &TableService{
		repo:   repo,
		logger: logger.With().Str("component", "table_service").Logger(),
	}
}

func (s *TableService) CreateTable(ctx context.Context, number, capacity int64, location string, isActive bool) (*models.Table, error) {
	table := &models.Table{Number: number, Capacity: capacity, Location: location, IsActive: isActive}
	if !table.IsValid() {
		return nil, database.ErrInvalidTable
	}

	if _, err := s.repo.GetTableByNumber(ctx, number); err == nil {
		return nil, database.ErrDuplicateTableNumber
	} else if !errors.Is(err, database.ErrTableNotFound) {
		return nil, err
	}

	if err := s.repo.CreateTable(ctx, table); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("table_id", table.ID).Int64("number", number).Msg("table created")
	return table, nil
}

func (s *TableService) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	return s.repo.GetTable(ctx, id)
}

func (s *TableService) GetTableByNumber(ctx context.Context, number int64) (*models.Table, error) {
	return s.repo.GetTableByNumber(ctx, number)
}

func (s *TableService) GetAllTables(ctx context.Context) ([]*models.Table, error) {
	return s.repo.GetAllTables(ctx)
}

// GetAvailableTables lists active tables that seat at least minCapacity,
// optionally narrowed to a location.
func (s *TableService) GetAvailableTables(ctx context.Context, minCapacity int64, location string) ([]*models.Table, error) {
	return s.repo.GetAvailableTables(ctx, minCapacity, location)
}

// TableUpdate carries optional field changes; nil means keep current.
type TableUpdate struct {
	Number   *int64
	Capacity *int64
	Location *string
	IsActive *bool
}

func (s *TableService) UpdateTable(ctx context.Context, id int64, upd TableUpdate) (*models.Table, error) {
	current, err := s.repo.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Number != nil && *upd.Number != current.Number {
		if _, err := s.repo.GetTableByNumber(ctx, *upd.Number); err == nil {
			return nil, database.ErrDuplicateTableNumber
		} else if !errors.Is(err, database.ErrTableNotFound) {
			return nil, err
		}
		current.Number = *upd.Number
	}
	if upd.Capacity != nil {
		current.Capacity = *upd.Capacity
	}
	if upd.Location != nil {
		current.Location = *upd.Location
	}
	if upd.IsActive != nil {
		current.IsActive = *upd.IsActive
	}

	if !current.IsValid() {
		return nil, database.ErrInvalidTable
	}

	if err := s.repo.UpdateTable(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// DeleteTable removes the table and, by cascade, its bookings.
func (s *TableService) DeleteTable(ctx context.Context, id int64) error {
	return s.repo.DeleteTable(ctx, id)
}
