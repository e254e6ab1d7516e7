package database

import (
	"context"
	"fmt"

	"stolik/internal/models"
)

func (db *DB) GetBookingStatistics(ctx context.Context) (*models.BookingStatistics, error) {
	stats := &models.BookingStatistics{StatusBreakdown: make(map[string]int64)}

	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&stats.TotalBookings)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get status breakdown: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		stats.StatusBreakdown[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	popRows, err := db.QueryContext(ctx, `
		SELECT t.number, t.location, COUNT(b.id) AS bookings_count
		FROM tables t
		LEFT JOIN bookings b ON t.id = b.table_id
		GROUP BY t.id, t.number, t.location
		ORDER BY bookings_count DESC, t.number ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get table popularity: %w", err)
	}
	defer popRows.Close()
	for popRows.Next() {
		var p models.TablePopularity
		if err := popRows.Scan(&p.TableNumber, &p.Location, &p.BookingsCount); err != nil {
			return nil, fmt.Errorf("failed to scan popularity row: %w", err)
		}
		stats.TablePopularity = append(stats.TablePopularity, p)
	}
	return stats, popRows.Err()
}
