package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type InitiateTransferRequest struct {
	TicketID      uint     `json:"ticket_id"`
	ToUserID      uint     `json:"to_user_id"`
	TransferType  string   `json:"transfer_type"`
	TransferPrice *float64 `json:"transfer_price,omitempty"`
	TransferNotes string   `json:"transfer_notes,omitempty"`
}

func (req *InitiateTransferRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.TicketID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.ToUserID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.TransferType, validation.Required,
			validation.In("TRUSTED_CIRCLE", "CONTROLLED_TRANSFER")),
		validation.Field(&req.TransferNotes, validation.Length(0, 500)),
	)
	if err != nil {
		return err
	}

	if req.TransferPrice != nil {
		return validation.Validate(*req.TransferPrice, validation.Min(0.0))
	}

	return nil
}
