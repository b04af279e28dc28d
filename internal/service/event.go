package service

import (
	"context"
	"fmt"
	"time"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/pkg/clock"
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindByStatus(ctx context.Context, status domain.EventStatus) ([]domain.Event, error)
	FindUpcoming(ctx context.Context, after time.Time) ([]domain.Event, error)
	FindByVenue(ctx context.Context, venue string) ([]domain.Event, error)
	UpdateStatus(ctx context.Context, id uint, status domain.EventStatus) error
}

type EventService struct {
	repo  EventRepository
	audit AuditRecorder
	clock clock.Clock
}

func NewEventService(repo EventRepository, audit AuditRecorder, clk clock.Clock) *EventService {
	return &EventService{
		repo:  repo,
		audit: audit,
		clock: clk,
	}
}

// CreateEvent opens a new event with its full capacity available.
func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	if !event.EventDate.After(s.clock.Now()) {
		return domain.Event{}, domain.ErrEventDateInPast
	}

	event.AvailableTickets = event.TotalCapacity
	event.Status = domain.EventActive

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.audit.Record(ctx, created.OrganizerID, "EVENT_CREATED", "Event", created.ID,
		fmt.Sprintf("event %q with capacity %d", created.Name, created.TotalCapacity))

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	return event, nil
}

func (s *EventService) ListActiveEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindByStatus(ctx, domain.EventActive)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByStatus -> %w", err)
	}

	return events, nil
}

func (s *EventService) ListUpcomingEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindUpcoming(ctx, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindUpcoming -> %w", err)
	}

	return events, nil
}

func (s *EventService) SearchByVenue(ctx context.Context, venue string) ([]domain.Event, error) {
	events, err := s.repo.FindByVenue(ctx, venue)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByVenue -> %w", err)
	}

	return events, nil
}

// UpdateEventStatus is restricted to the event's organizer.
func (s *EventService) UpdateEventStatus(ctx context.Context, eventID, callerID uint, status domain.EventStatus) error {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return err
	}

	if event.OrganizerID != callerID {
		return domain.ErrNotAuthorized
	}

	if err := s.repo.UpdateStatus(ctx, eventID, status); err != nil {
		return fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	s.audit.Record(ctx, callerID, "EVENT_STATUS_UPDATED", "Event", eventID, string(status))

	return nil
}
