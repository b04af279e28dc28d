package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	EventDate     string  `json:"event_date" format:"RFC3339"`
	Venue         string  `json:"venue"`
	TotalCapacity int     `json:"total_capacity"`
	TicketPrice   float64 `json:"ticket_price"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.EventDate, validation.Required),
		validation.Field(&req.Venue, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.TotalCapacity, validation.Required, validation.Min(1)),
		validation.Field(&req.TicketPrice, validation.Required, validation.Min(0.01)),
	)
}

type UpdateEventStatusRequest struct {
	Status string `json:"status"`
}

func (req *UpdateEventStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required,
			validation.In("ACTIVE", "CANCELLED", "COMPLETED", "ARCHIVED")),
	)
}
