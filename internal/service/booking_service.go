package service

import (
	"context"
	"errors"
	"time"

	"stolik/internal/database"
	"stolik/internal/domain"
	"stolik/internal/events"
	"stolik/internal/metrics"
	"stolik/internal/models"

	"github.com/rs/zerolog"
)

// BookingService is the booking lifecycle manager: it owns creation
// validation, the conflict check and the status state machine.
type BookingService struct {
	repo            domain.Repository
	eventBus        domain.EventPublisher
	cache           domain.ScheduleCache
	exporter        domain.ExportWorker
	defaultDuration float64
	logger          zerolog.Logger
}

// CreateBookingRequest carries the caller's input for a new reservation.
type CreateBookingRequest struct {
	UserID          int64
	TableID         int64
	Date            time.Time
	Time            string
	GuestsCount     int64
	DurationHours   float64
	SpecialRequests string
}

func NewBookingService(
	repo domain.Repository,
	eventBus domain.EventPublisher,
	cache domain.ScheduleCache,
	exporter domain.ExportWorker,
	defaultDuration float64,
	logger *zerolog.Logger,
) *BookingService {
	if defaultDuration <= 0 {
		defaultDuration = models.DefaultDurationHours
	}
	return &BookingService{
		repo:            repo,
		eventBus:        eventBus,
		cache:           cache,
		exporter:        exporter,
		defaultDuration: defaultDuration,
		logger:          logger.With().Str("component", "booking_service").Logger(),
	}
}

// CreateBooking validates the request and reserves the slot. Order of the
// guards is part of the contract: a party that does not fit the table is
// rejected before any conflict check runs.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	user, err := s.repo.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	table, err := s.repo.GetTable(ctx, req.TableID)
	if err != nil {
		return nil, err
	}

	if req.GuestsCount > table.Capacity {
		return nil, database.ErrCapacityExceeded
	}
	if !table.IsActive {
		return nil, database.ErrTableInactive
	}

	duration := req.DurationHours
	if duration <= 0 {
		duration = s.defaultDuration
	}

	booking := &models.Booking{
		UserID:          user.ID,
		TableID:         table.ID,
		BookingDate:     req.Date,
		BookingTime:     req.Time,
		DurationHours:   duration,
		GuestsCount:     req.GuestsCount,
		Status:          models.StatusPending,
		SpecialRequests: req.SpecialRequests,
	}
	if !booking.IsValid() {
		return nil, database.ErrInvalidBooking
	}

	// Conflict check and insert run inside one transaction; two racing
	// requests for overlapping slots cannot both land.
	if err := s.repo.CreateBookingWithLock(ctx, booking); err != nil {
		if errors.Is(err, database.ErrSlotConflict) {
			metrics.IncBookingConflict()
			s.logger.Info().
				Int64("table_id", table.ID).
				Str("date", req.Date.Format(models.DateLayout)).
				Str("time", req.Time).
				Msg("booking rejected: slot conflict")
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	s.invalidateDay(ctx, booking.TableID, booking.BookingDate)
	s.publishEvent(events.EventBookingCreated, booking)
	s.enqueueExport(ctx)

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("table_id", booking.TableID).
		Int64("user_id", booking.UserID).
		Msg("booking created")

	return booking, nil
}

// GetConflictingBookings returns the active bookings on a table whose
// intervals overlap [timeOfDay, timeOfDay+duration) on the given date, in
// start-time order. An empty result means the slot is free.
func (s *BookingService) GetConflictingBookings(ctx context.Context, tableID int64, date time.Time, timeOfDay string, durationHours float64) ([]*models.Booking, error) {
	existing, err := s.repo.GetActiveBookingsForTableDate(ctx, tableID, date)
	if err != nil {
		return nil, err
	}

	probe := &models.Booking{
		TableID:       tableID,
		BookingDate:   date,
		BookingTime:   timeOfDay,
		DurationHours: durationHours,
		Status:        models.StatusPending,
	}

	var conflicting []*models.Booking
	for _, b := range existing {
		if probe.ConflictsWith(b) {
			conflicting = append(conflicting, b)
		}
	}
	return conflicting, nil
}

// IsSlotAvailable reports whether a proposed interval is free of conflicts.
func (s *BookingService) IsSlotAvailable(ctx context.Context, tableID int64, date time.Time, timeOfDay string, durationHours float64) (bool, error) {
	conflicts, err := s.GetConflictingBookings(ctx, tableID, date, timeOfDay, durationHours)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// UpdateBookingStatus moves a booking through its state machine.
// Cancellation is only legal from pending or confirmed; other targets are
// accepted unconditionally.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id int64, newStatus models.Status) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if newStatus == models.StatusCancelled && !booking.CanBeCancelled() {
		return nil, database.ErrIllegalTransition
	}

	if err := s.repo.UpdateBookingStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.IncStatusTransition(string(newStatus))
	s.invalidateDay(ctx, updated.TableID, updated.BookingDate)
	s.publishEvent(statusEventType(newStatus), updated)
	s.enqueueExport(ctx)

	return updated, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return err
	}

	s.invalidateDay(ctx, booking.TableID, booking.BookingDate)
	s.publishEvent(events.EventBookingDeleted, booking)
	s.enqueueExport(ctx)
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

func (s *BookingService) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.repo.GetAllBookings(ctx)
}

func (s *BookingService) GetBookingsByUser(ctx context.Context, userID int64) ([]*models.Booking, error) {
	return s.repo.GetBookingsByUser(ctx, userID)
}

func (s *BookingService) GetBookingsByTable(ctx context.Context, tableID int64) ([]*models.Booking, error) {
	return s.repo.GetBookingsByTable(ctx, tableID)
}

func (s *BookingService) GetStatistics(ctx context.Context) (*models.BookingStatistics, error) {
	return s.repo.GetBookingStatistics(ctx)
}

// DaySchedule returns the active bookings for a table and date, served
// from the schedule cache when warm.
func (s *BookingService) DaySchedule(ctx context.Context, tableID int64, date time.Time) ([]*models.Booking, error) {
	if s.cache != nil {
		if bookings, ok, err := s.cache.GetDaySchedule(ctx, tableID, date); err == nil && ok {
			return bookings, nil
		}
	}

	bookings, err := s.repo.GetActiveBookingsForTableDate(ctx, tableID, date)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDaySchedule(ctx, tableID, date, bookings); err != nil {
			s.logger.Warn().Err(err).Int64("table_id", tableID).Msg("schedule cache set failed")
		}
	}
	return bookings, nil
}

func (s *BookingService) invalidateDay(ctx context.Context, tableID int64, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDay(ctx, tableID, date); err != nil {
		s.logger.Warn().Err(err).Int64("table_id", tableID).Msg("schedule cache invalidation failed")
	}
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		TableID:     booking.TableID,
		BookingDate: booking.BookingDate.Format(models.DateLayout),
		BookingTime: booking.BookingTime,
		Duration:    booking.DurationHours,
		Guests:      booking.GuestsCount,
		Status:      string(booking.Status),
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueExport(ctx context.Context) {
	if s.exporter == nil {
		return
	}
	if err := s.exporter.EnqueueExport(ctx); err != nil {
		s.logger.Error().Err(err).Msg("export enqueue error")
	}
}

func statusEventType(status models.Status) string {
	switch status {
	case models.StatusConfirmed:
		return events.EventBookingConfirmed
	case models.StatusCancelled:
		return events.EventBookingCancelled
	case models.StatusCompleted:
		return events.EventBookingCompleted
	default:
		return events.EventBookingCreated
	}
}
