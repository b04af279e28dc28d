package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/antiscalping/tickets/internal/domain"
)

type Event struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`

	EventDate time.Time `gorm:"not null"`
	Venue     string    `gorm:"not null;index"`

	TotalCapacity    int     `gorm:"not null"`
	AvailableTickets int     `gorm:"not null"`
	TicketPrice      float64 `gorm:"not null"`

	Status      string `gorm:"not null;index"`
	OrganizerID uint

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, domain.ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByStatus(ctx context.Context, status string) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Where("status = ?", status).Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindUpcoming(ctx context.Context, after time.Time) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("event_date > ? AND status = ?", after, string(domain.EventActive)).
		Order("event_date asc").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindByVenue(ctx context.Context, venue string) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Where("venue = ?", venue).Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

// ReserveTickets atomically decrements the available counter. The predicate
// guarantees two purchases for the last remaining seat cannot both succeed.
func (d *EventDAO) ReserveTickets(ctx context.Context, eventID uint, quantity int) error {
	return reserveTickets(d.db.WithContext(ctx), eventID, quantity)
}

// ReleaseTickets adds quantity back to the available counter, clamped to
// the total capacity so release races never overshoot.
func (d *EventDAO) ReleaseTickets(ctx context.Context, eventID uint, quantity int) error {
	return releaseTickets(d.db.WithContext(ctx), eventID, quantity)
}

func reserveTickets(tx *gorm.DB, eventID uint, quantity int) error {
	result := tx.Model(&Event{}).
		Where("id = ? AND available_tickets >= ?", eventID, quantity).
		Update("available_tickets", gorm.Expr("available_tickets - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&Event{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrEventNotFound
		}
		return domain.ErrCapacityExceeded
	}

	return nil
}

func releaseTickets(tx *gorm.DB, eventID uint, quantity int) error {
	result := tx.Model(&Event{}).
		Where("id = ?", eventID).
		Update("available_tickets", gorm.Expr("LEAST(total_capacity, available_tickets + ?)", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}
