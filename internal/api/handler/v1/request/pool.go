package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type AddToPoolRequest struct {
	TicketID uint `json:"ticket_id"`
}

func (req *AddToPoolRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TicketID, validation.Required, validation.Min(uint(1))),
	)
}

type NominateRequest struct {
	NominatedUserID uint `json:"nominated_user_id"`
}

func (req *NominateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.NominatedUserID, validation.Required, validation.Min(uint(1))),
	)
}
