package domain

import (
	"context"
	"time"

	"stolik/internal/models"
)

// Repository is the record store gateway the services depend on. The sqlite
// implementation lives in internal/database.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error

	CreateTable(ctx context.Context, table *models.Table) error
	GetTable(ctx context.Context, id int64) (*models.Table, error)
	GetTableByNumber(ctx context.Context, number int64) (*models.Table, error)
	GetAllTables(ctx context.Context) ([]*models.Table, error)
	GetAvailableTables(ctx context.Context, minCapacity int64, location string) ([]*models.Table, error)
	UpdateTable(ctx context.Context, table *models.Table) error
	DeleteTable(ctx context.Context, id int64) error

	CreateBooking(ctx context.Context, booking *models.Booking) error
	CreateBookingWithLock(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetAllBookings(ctx context.Context) ([]*models.Booking, error)
	GetBookingsByUser(ctx context.Context, userID int64) ([]*models.Booking, error)
	GetBookingsByTable(ctx context.Context, tableID int64) ([]*models.Booking, error)
	GetActiveBookingsForTableDate(ctx context.Context, tableID int64, date time.Time) ([]*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status models.Status) error
	DeleteBooking(ctx context.Context, id int64) error

	GetBookingStatistics(ctx context.Context) (*models.BookingStatistics, error)
}

// ScheduleCache keeps a table's day schedule close to the API layer. It is
// advisory: the transactional create path never trusts it.
type ScheduleCache interface {
	GetDaySchedule(ctx context.Context, tableID int64, date time.Time) ([]*models.Booking, bool, error)
	SetDaySchedule(ctx context.Context, tableID int64, date time.Time, bookings []*models.Booking) error
	InvalidateDay(ctx context.Context, tableID int64, date time.Time) error
}

// EventPublisher fans booking lifecycle events out to in-process consumers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ExportWorker accepts asynchronous export requests.
type ExportWorker interface {
	EnqueueExport(ctx context.Context) error
}
