package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishJSONDeliversToSubscribers(t *testing.T) {
	bus := NewEventBus()

	var received []*Event
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		received = append(received, event)
		return nil
	})

	payload := BookingEventPayload{BookingID: 7, TableID: 2, Status: "pending"}
	require.NoError(t, bus.PublishJSON(EventBookingCreated, payload))

	require.Len(t, received, 1)
	assert.Equal(t, EventBookingCreated, received[0].Type)
	assert.False(t, received[0].CreatedAt.IsZero())

	var got BookingEventPayload
	require.NoError(t, json.Unmarshal(received[0].Payload, &got))
	assert.Equal(t, int64(7), got.BookingID)
	assert.Equal(t, "pending", got.Status)
}

func TestPublishOnlyMatchingType(t *testing.T) {
	bus := NewEventBus()

	var created, cancelled int
	bus.Subscribe(EventBookingCreated, func(*Event) error {
		created++
		return nil
	})
	bus.Subscribe(EventBookingCancelled, func(*Event) error {
		cancelled++
		return nil
	})

	require.NoError(t, bus.PublishJSON(EventBookingCancelled, BookingEventPayload{BookingID: 1}))

	assert.Zero(t, created)
	assert.Equal(t, 1, cancelled)
}

func TestPublishWithNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	assert.NoError(t, bus.PublishJSON(EventBookingDeleted, BookingEventPayload{BookingID: 1}))
}

func TestNilBusIsSafe(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventBookingCreated, BookingEventPayload{}))
}
