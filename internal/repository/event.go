package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/repository/dao"
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindByStatus(ctx context.Context, status string) ([]dao.Event, error)
	FindUpcoming(ctx context.Context, after time.Time) ([]dao.Event, error)
	FindByVenue(ctx context.Context, venue string) ([]dao.Event, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	ReserveTickets(ctx context.Context, eventID uint, quantity int) error
	ReleaseTickets(ctx context.Context, eventID uint, quantity int) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, eventDomainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventDaoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	event, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	return eventDaoToDomain(event), nil
}

func (r *EventRepository) FindByStatus(ctx context.Context, status domain.EventStatus) ([]domain.Event, error) {
	events, err := r.dao.FindByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStatus -> %w", err)
	}

	return eventsDaoToDomain(events), nil
}

func (r *EventRepository) FindUpcoming(ctx context.Context, after time.Time) ([]domain.Event, error) {
	events, err := r.dao.FindUpcoming(ctx, after)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindUpcoming -> %w", err)
	}

	return eventsDaoToDomain(events), nil
}

func (r *EventRepository) FindByVenue(ctx context.Context, venue string) ([]domain.Event, error) {
	events, err := r.dao.FindByVenue(ctx, venue)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByVenue -> %w", err)
	}

	return eventsDaoToDomain(events), nil
}

func (r *EventRepository) UpdateStatus(ctx context.Context, id uint, status domain.EventStatus) error {
	return r.dao.UpdateStatus(ctx, id, string(status))
}

func (r *EventRepository) ReserveCapacity(ctx context.Context, eventID uint, quantity int) error {
	return r.dao.ReserveTickets(ctx, eventID, quantity)
}

func (r *EventRepository) ReleaseCapacity(ctx context.Context, eventID uint, quantity int) error {
	return r.dao.ReleaseTickets(ctx, eventID, quantity)
}

func eventDomainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		EventDate:        e.EventDate,
		Venue:            e.Venue,
		TotalCapacity:    e.TotalCapacity,
		AvailableTickets: e.AvailableTickets,
		TicketPrice:      e.TicketPrice,
		Status:           string(e.Status),
		OrganizerID:      e.OrganizerID,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func eventDaoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		EventDate:        e.EventDate,
		Venue:            e.Venue,
		TotalCapacity:    e.TotalCapacity,
		AvailableTickets: e.AvailableTickets,
		TicketPrice:      e.TicketPrice,
		Status:           domain.EventStatus(e.Status),
		OrganizerID:      e.OrganizerID,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func eventsDaoToDomain(events []dao.Event) []domain.Event {
	result := make([]domain.Event, len(events))
	for i, e := range events {
		result[i] = eventDaoToDomain(e)
	}
	return result
}
