package domain

import "time"

type TransferType string

const (
	TransferTrustedCircle TransferType = "TRUSTED_CIRCLE"
	TransferControlled    TransferType = "CONTROLLED_TRANSFER"
	TransferPoolClaim     TransferType = "POOL_CLAIM"
)

type TransferStatus string

const (
	TransferPending   TransferStatus = "PENDING"
	TransferApproved  TransferStatus = "APPROVED"
	TransferCompleted TransferStatus = "COMPLETED"
	TransferRejected  TransferStatus = "REJECTED"
	TransferCancelled TransferStatus = "CANCELLED"
)

// TicketTransfer is a transfer proposal between two users over one ticket.
// Status moves strictly forward: PENDING -> APPROVED -> COMPLETED, with
// REJECTED and CANCELLED as the other terminal states.
type TicketTransfer struct {
	ID            uint           `json:"id"`
	TicketID      uint           `json:"ticket_id"`
	FromUserID    uint           `json:"from_user_id"`
	ToUserID      uint           `json:"to_user_id"`
	TransferType  TransferType   `json:"transfer_type"`
	Status        TransferStatus `json:"status"`
	TransferPrice *float64       `json:"transfer_price,omitempty"`
	TransferNotes string         `json:"transfer_notes,omitempty"`
	RequestedAt   time.Time      `json:"requested_at"`
	ApprovedAt    *time.Time     `json:"approved_at,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (t *TicketTransfer) IsTerminal() bool {
	switch t.Status {
	case TransferCompleted, TransferRejected, TransferCancelled:
		return true
	}
	return false
}
