package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stolik/internal/models"
)

const bookingColumns = `id, user_id, table_id, booking_date, booking_time,
	duration_hours, guests_count, status, special_requests, created_at, updated_at`

func scanBooking(scan func(dest ...any) error) (*models.Booking, error) {
	b := &models.Booking{}
	var dateStr, status string
	var requests sql.NullString
	err := scan(
		&b.ID, &b.UserID, &b.TableID, &dateStr, &b.BookingTime,
		&b.DurationHours, &b.GuestsCount, &status, &requests,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.BookingDate, err = time.Parse(models.DateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse booking date %s: %w", dateStr, err)
	}
	b.Status = models.ParseStatus(status)
	b.SpecialRequests = requests.String
	return b, nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	row := db.QueryRowContext(ctx, query, id)
	booking, err := scanBooking(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (db *DB) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          ORDER BY booking_date DESC, booking_time DESC`
	return db.queryBookings(ctx, query)
}

func (db *DB) GetBookingsByUser(ctx context.Context, userID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ?
	          ORDER BY booking_date DESC, booking_time DESC`
	return db.queryBookings(ctx, query, userID)
}

func (db *DB) GetBookingsByTable(ctx context.Context, tableID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE table_id = ?
	          ORDER BY booking_date DESC, booking_time DESC`
	return db.queryBookings(ctx, query, tableID)
}

// GetActiveBookingsForTableDate is the conflict engine's read set: pending
// and confirmed bookings for one table on one day, in start-time order.
func (db *DB) GetActiveBookingsForTableDate(ctx context.Context, tableID int64, date time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE table_id = ? AND booking_date = ? AND status IN (?, ?)
	          ORDER BY booking_time ASC`
	return db.queryBookings(ctx, query, tableID, date.Format(models.DateLayout),
		string(models.StatusPending), string(models.StatusConfirmed))
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// CreateBooking inserts without a conflict check. Only for callers that
// already hold the table, such as tests and imports; live traffic goes
// through CreateBookingWithLock.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	now := time.Now()
	query := `INSERT INTO bookings (user_id, table_id, booking_date, booking_time,
	            duration_hours, guests_count, status, special_requests, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		booking.UserID, booking.TableID,
		booking.BookingDate.Format(models.DateLayout), booking.BookingTime,
		booking.DurationHours, booking.GuestsCount,
		string(booking.Status), booking.SpecialRequests, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

// CreateBookingWithLock re-runs the conflict check and inserts inside one
// transaction, so two overlapping requests cannot both pass the check and
// both land. Returns ErrSlotConflict when the slot is already taken.
func (db *DB) CreateBookingWithLock(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 1. Re-check conflicts inside the transaction
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE table_id = ? AND booking_date = ? AND status IN (?, ?)
	          ORDER BY booking_time ASC`
	rows, err := tx.QueryContext(ctx, query,
		booking.TableID, booking.BookingDate.Format(models.DateLayout),
		string(models.StatusPending), string(models.StatusConfirmed))
	if err != nil {
		return fmt.Errorf("failed to check conflicts in tx: %w", err)
	}
	for rows.Next() {
		existing, err := scanBooking(rows.Scan)
		if err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan booking in tx: %w", err)
		}
		if booking.ConflictsWith(existing) {
			rows.Close()
			return ErrSlotConflict
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	// 2. Insert
	now := time.Now()
	queryInsert := `INSERT INTO bookings (user_id, table_id, booking_date, booking_time,
	                  duration_hours, guests_count, status, special_requests, created_at, updated_at)
	                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, queryInsert,
		booking.UserID, booking.TableID,
		booking.BookingDate.Format(models.DateLayout), booking.BookingTime,
		booking.DurationHours, booking.GuestsCount,
		string(booking.Status), booking.SpecialRequests, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return tx.Commit()
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.Status) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, string(status), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}
