package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/pkg/clock"
)

func newEventTestSvc(t *testing.T) (*EventService, *fakeEventRepo) {
	t.Helper()

	clk := clock.NewFixed(testNow)
	events := newFakeEventRepo()

	return NewEventService(events, NewAuditService(newFakeAuditRepo(), clk), clk), events
}

func TestEventService_CreateEvent(t *testing.T) {
	svc, _ := newEventTestSvc(t)

	event, err := svc.CreateEvent(context.Background(), domain.Event{
		Name:          "Summer Concert",
		EventDate:     testNow.Add(30 * 24 * time.Hour),
		Venue:         "Main Arena",
		TotalCapacity: 500,
		TicketPrice:   80,
		OrganizerID:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EventActive, event.Status)

	// Capacity opens fully available.
	assert.Equal(t, 500, event.AvailableTickets)

	_, err = svc.CreateEvent(context.Background(), domain.Event{
		Name:          "Yesterday's Show",
		EventDate:     testNow.Add(-time.Hour),
		TotalCapacity: 10,
	})
	assert.ErrorIs(t, err, domain.ErrEventDateInPast)
}

func TestEventService_UpdateEventStatus(t *testing.T) {
	svc, events := newEventTestSvc(t)

	event, err := events.Create(context.Background(), domain.Event{
		Name:        "Show",
		OrganizerID: 1,
		Status:      domain.EventActive,
	})
	require.NoError(t, err)

	err = svc.UpdateEventStatus(context.Background(), event.ID, 2, domain.EventCancelled)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	err = svc.UpdateEventStatus(context.Background(), event.ID, 1, domain.EventCancelled)
	require.NoError(t, err)

	updated, err := events.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EventCancelled, updated.Status)

	err = svc.UpdateEventStatus(context.Background(), 999, 1, domain.EventCancelled)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}
