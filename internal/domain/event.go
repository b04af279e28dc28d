package domain

import "time"

type EventStatus string

const (
	EventActive    EventStatus = "ACTIVE"
	EventCancelled EventStatus = "CANCELLED"
	EventCompleted EventStatus = "COMPLETED"
	EventArchived  EventStatus = "ARCHIVED"
)

type Event struct {
	ID               uint        `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	EventDate        time.Time   `json:"event_date"`
	Venue            string      `json:"venue"`
	TotalCapacity    int         `json:"total_capacity"`
	AvailableTickets int         `json:"available_tickets"`
	TicketPrice      float64     `json:"ticket_price"`
	Status           EventStatus `json:"status"`
	OrganizerID      uint        `json:"organizer_id"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
