package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stolik/internal/models"
)

func (db *DB) CreateTable(ctx context.Context, table *models.Table) error {
	query := `INSERT INTO tables (number, capacity, location, is_active, created_at)
	          VALUES (?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		table.Number, table.Capacity, table.Location, table.IsActive, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTableNumber
		}
		return fmt.Errorf("failed to create table: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	table.ID = id
	table.CreatedAt = now
	return nil
}

func (db *DB) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	query := `SELECT id, number, capacity, location, is_active, created_at
	          FROM tables WHERE id = ?`
	return db.scanTableRow(db.QueryRowContext(ctx, query, id))
}

func (db *DB) GetTableByNumber(ctx context.Context, number int64) (*models.Table, error) {
	query := `SELECT id, number, capacity, location, is_active, created_at
	          FROM tables WHERE number = ?`
	return db.scanTableRow(db.QueryRowContext(ctx, query, number))
}

func (db *DB) scanTableRow(row *sql.Row) (*models.Table, error) {
	var table models.Table
	err := row.Scan(&table.ID, &table.Number, &table.Capacity,
		&table.Location, &table.IsActive, &table.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return &table, nil
}

func (db *DB) GetAllTables(ctx context.Context) ([]*models.Table, error) {
	query := `SELECT id, number, capacity, location, is_active, created_at
	          FROM tables ORDER BY number`
	return db.queryTables(ctx, query)
}

// GetAvailableTables returns active tables seating at least minCapacity,
// optionally narrowed to a location.
func (db *DB) GetAvailableTables(ctx context.Context, minCapacity int64, location string) ([]*models.Table, error) {
	if location != "" {
		query := `SELECT id, number, capacity, location, is_active, created_at
		          FROM tables WHERE is_active = 1 AND capacity >= ? AND location = ?
		          ORDER BY number`
		return db.queryTables(ctx, query, minCapacity, location)
	}
	query := `SELECT id, number, capacity, location, is_active, created_at
	          FROM tables WHERE is_active = 1 AND capacity >= ? ORDER BY number`
	return db.queryTables(ctx, query, minCapacity)
}

func (db *DB) queryTables(ctx context.Context, query string, args ...any) ([]*models.Table, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	defer rows.Close()

	var tables []*models.Table
	for rows.Next() {
		t := &models.Table{}
		if err := rows.Scan(&t.ID, &t.Number, &t.Capacity, &t.Location, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (db *DB) UpdateTable(ctx context.Context, table *models.Table) error {
	query := `UPDATE tables SET number = ?, capacity = ?, location = ?, is_active = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		table.Number, table.Capacity, table.Location, table.IsActive, table.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTableNumber
		}
		return fmt.Errorf("failed to update table: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrTableNotFound
	}
	return nil
}

// DeleteTable removes a table and, via cascade, its bookings.
func (db *DB) DeleteTable(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM tables WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete table: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrTableNotFound
	}
	return nil
}
