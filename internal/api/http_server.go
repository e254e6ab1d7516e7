package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stolik/internal/config"
	"stolik/internal/database"
	"stolik/internal/models"
	"stolik/internal/service"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the reservation manager as a JSON API.
type HTTPServer struct {
	cfg      config.APIConfig
	users    *service.UserService
	tables   *service.TableService
	bookings *service.BookingService
	server   *http.Server
	auth     *HTTPAuth
	log      zerolog.Logger
}

func NewHTTPServer(
	cfg config.APIConfig,
	users *service.UserService,
	tables *service.TableService,
	bookings *service.BookingService,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		users:    users,
		tables:   tables,
		bookings: bookings,
		log:      logger.With().Str("component", "http").Logger(),
	}
	srv.auth = NewHTTPAuth(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", srv.handleHealth)
	mux.HandleFunc("/api/v1/users", srv.handleUsers)
	mux.HandleFunc("/api/v1/tables", srv.handleTables)
	mux.HandleFunc("/api/v1/availability", srv.handleAvailability)
	mux.HandleFunc("/api/v1/schedule", srv.handleSchedule)
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/bookings/", srv.handleBookingByID)
	mux.HandleFunc("/api/v1/statistics", srv.handleStatistics)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *HTTPServer) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		users, err := s.users.GetAllUsers(r.Context())
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": users})
	case http.MethodPost:
		var body struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		user, err := s.users.RegisterUser(r.Context(), body.Name, body.Phone)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleTables(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var (
			tables []*models.Table
			err    error
		)
		if capStr := r.URL.Query().Get("min_capacity"); capStr != "" {
			minCapacity, convErr := strconv.ParseInt(capStr, 10, 64)
			if convErr != nil {
				writeError(w, http.StatusBadRequest, "invalid min_capacity")
				return
			}
			tables, err = s.tables.GetAvailableTables(r.Context(), minCapacity, r.URL.Query().Get("location"))
		} else {
			tables, err = s.tables.GetAllTables(r.Context())
		}
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
	case http.MethodPost:
		var body struct {
			Number   int64  `json:"number"`
			Capacity int64  `json:"capacity"`
			Location string `json:"location"`
			IsActive *bool  `json:"is_active"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		active := true
		if body.IsActive != nil {
			active = *body.IsActive
		}
		table, err := s.tables.CreateTable(r.Context(), body.Number, body.Capacity, body.Location, active)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, table)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tableID, date, err := tableAndDateParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	timeOfDay := strings.TrimSpace(r.URL.Query().Get("time"))
	if timeOfDay == "" {
		writeError(w, http.StatusBadRequest, "time is required")
		return
	}
	if _, err := time.Parse(models.TimeLayout, timeOfDay); err != nil {
		writeError(w, http.StatusBadRequest, "invalid time format; expected HH:MM")
		return
	}

	duration := models.DefaultDurationHours
	if d := r.URL.Query().Get("duration"); d != "" {
		duration, err = strconv.ParseFloat(d, 64)
		if err != nil || duration <= 0 {
			writeError(w, http.StatusBadRequest, "invalid duration")
			return
		}
	}

	conflicts, err := s.bookings.GetConflictingBookings(r.Context(), tableID, date, timeOfDay, duration)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"available": len(conflicts) == 0,
		"conflicts": conflicts,
	})
}

func (s *HTTPServer) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tableID, date, err := tableAndDateParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.bookings.DaySchedule(r.Context(), tableID, date)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if userStr := r.URL.Query().Get("user_id"); userStr != "" {
			userID, err := strconv.ParseInt(userStr, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid user_id")
				return
			}
			bookings, err := s.bookings.GetBookingsByUser(r.Context(), userID)
			if err != nil {
				s.writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
			return
		}
		bookings, err := s.bookings.GetAllBookings(r.Context())
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
	case http.MethodPost:
		var body struct {
			UserID          int64   `json:"user_id"`
			TableID         int64   `json:"table_id"`
			Date            string  `json:"booking_date"`
			Time            string  `json:"booking_time"`
			GuestsCount     int64   `json:"guests_count"`
			DurationHours   float64 `json:"duration_hours"`
			SpecialRequests string  `json:"special_requests"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		date, err := time.Parse(models.DateLayout, body.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid booking_date; expected YYYY-MM-DD")
			return
		}

		booking, err := s.bookings.CreateBooking(r.Context(), service.CreateBookingRequest{
			UserID:          body.UserID,
			TableID:         body.TableID,
			Date:            date,
			Time:            body.Time,
			GuestsCount:     body.GuestsCount,
			DurationHours:   body.DurationHours,
			SpecialRequests: body.SpecialRequests,
		})
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, booking)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleBookingByID serves /api/v1/bookings/{id} and
// /api/v1/bookings/{id}/status.
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/bookings/")
	idStr, action, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		booking, err := s.bookings.GetBooking(r.Context(), id)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)
	case action == "" && r.Method == http.MethodDelete:
		if err := s.bookings.DeleteBooking(r.Context(), id); err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
	case action == "status" && r.Method == http.MethodPost:
		var body struct {
			Status string `json:"status"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		booking, err := s.bookings.UpdateBookingStatus(r.Context(), id, models.ParseStatus(body.Status))
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats, err := s.bookings.GetStatistics(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func tableAndDateParams(r *http.Request) (int64, time.Time, error) {
	tableID, err := strconv.ParseInt(r.URL.Query().Get("table_id"), 10, 64)
	if err != nil || tableID <= 0 {
		return 0, time.Time{}, fmt.Errorf("table_id is required")
	}
	date, err := time.Parse(models.DateLayout, r.URL.Query().Get("date"))
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("invalid date format; expected YYYY-MM-DD")
	}
	return tableID, date, nil
}

// writeDomainError maps the error taxonomy to HTTP status codes. Anything
// unrecognized is a store fault and reads as 503.
func (s *HTTPServer) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrUserNotFound),
		errors.Is(err, database.ErrTableNotFound),
		errors.Is(err, database.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrDuplicatePhone),
		errors.Is(err, database.ErrDuplicateTableNumber),
		errors.Is(err, database.ErrSlotConflict),
		errors.Is(err, database.ErrIllegalTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrCapacityExceeded),
		errors.Is(err, database.ErrTableInactive),
		errors.Is(err, database.ErrInvalidUser),
		errors.Is(err, database.ErrInvalidTable),
		errors.Is(err, database.ErrInvalidBooking):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.log.Error().Err(err).Msg("store failure")
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	}
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
