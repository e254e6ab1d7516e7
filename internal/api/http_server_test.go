package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"stolik/internal/config"
	"stolik/internal/database"
	"stolik/internal/models"
	"stolik/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *database.DB) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(filepath.Join(t.TempDir(), "api_test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.APIConfig{Enabled: true, Port: 0}
	srv := NewHTTPServer(cfg,
		service.NewUserService(db, &logger),
		service.NewTableService(db, &logger),
		service.NewBookingService(db, nil, nil, nil, 0, &logger),
		&logger,
	)

	ts := httptest.NewServer(srv.server.Handler)
	t.Cleanup(ts.Close)
	return ts, db
}

func seedUserAndTable(t *testing.T, db *database.DB) (*models.User, *models.Table) {
	ctx := context.Background()
	user := &models.User{Name: "Anna", Phone: "+1555300001"}
	require.NoError(t, db.CreateUser(ctx, user))
	table := &models.Table{Number: 1, Capacity: 4, Location: "main hall", IsActive: true}
	require.NoError(t, db.CreateTable(ctx, table))
	return user, table
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateBookingEndpoint(t *testing.T) {
	ts, db := newTestServer(t)
	user, table := seedUserAndTable(t, db)

	resp := postJSON(t, ts.URL+"/api/v1/bookings", map[string]any{
		"user_id":      user.ID,
		"table_id":     table.ID,
		"booking_date": "2024-06-01",
		"booking_time": "19:00",
		"guests_count": 2,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var booking models.Booking
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&booking))
	assert.NotZero(t, booking.ID)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, models.DefaultDurationHours, booking.DurationHours)
}

func TestCreateBookingConflictEndpoint(t *testing.T) {
	ts, db := newTestServer(t)
	user, table := seedUserAndTable(t, db)

	body := map[string]any{
		"user_id":      user.ID,
		"table_id":     table.ID,
		"booking_date": "2024-06-01",
		"booking_time": "19:00",
		"guests_count": 2,
	}

	resp := postJSON(t, ts.URL+"/api/v1/bookings", body)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body["booking_time"] = "20:30"
	resp = postJSON(t, ts.URL+"/api/v1/bookings", body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateBookingCapacityEndpoint(t *testing.T) {
	ts, db := newTestServer(t)
	user, table := seedUserAndTable(t, db)

	resp := postJSON(t, ts.URL+"/api/v1/bookings", map[string]any{
		"user_id":      user.ID,
		"table_id":     table.ID,
		"booking_date": "2024-06-01",
		"booking_time": "19:00",
		"guests_count": 10,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAvailabilityEndpoint(t *testing.T) {
	ts, db := newTestServer(t)
	user, table := seedUserAndTable(t, db)

	resp := postJSON(t, ts.URL+"/api/v1/bookings", map[string]any{
		"user_id":      user.ID,
		"table_id":     table.ID,
		"booking_date": "2024-06-01",
		"booking_time": "19:00",
		"guests_count": 2,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	check := func(timeOfDay string) bool {
		url := fmt.Sprintf("%s/api/v1/availability?table_id=%d&date=2024-06-01&time=%s",
			ts.URL, table.ID, timeOfDay)
		resp, err := http.Get(url)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Available bool `json:"available"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body.Available
	}

	assert.False(t, check("20:00"))
	// The slot frees up exactly when the booking ends.
	assert.True(t, check("21:00"))
}

func TestBookingStatusEndpoint(t *testing.T) {
	ts, db := newTestServer(t)
	user, table := seedUserAndTable(t, db)

	resp := postJSON(t, ts.URL+"/api/v1/bookings", map[string]any{
		"user_id":      user.ID,
		"table_id":     table.ID,
		"booking_date": "2024-06-01",
		"booking_time": "19:00",
		"guests_count": 2,
	})
	var booking models.Booking
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&booking))
	resp.Body.Close()

	url := fmt.Sprintf("%s/api/v1/bookings/%d/status", ts.URL, booking.ID)
	resp = postJSON(t, url, map[string]any{"status": "completed"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Cancelling a completed booking is an illegal transition.
	resp = postJSON(t, url, map[string]any{"status": "cancelled"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetBookingNotFoundEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/bookings/9999")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTablesEndpoint(t *testing.T) {
	ts, db := newTestServer(t)
	seedUserAndTable(t, db)

	resp, err := http.Get(ts.URL + "/api/v1/tables?min_capacity=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Tables []*models.Table `json:"tables"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Tables, 1)
}
