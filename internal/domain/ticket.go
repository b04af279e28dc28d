package domain

import "time"

type TicketStatus string

const (
	TicketAvailable   TicketStatus = "AVAILABLE"
	TicketTransferred TicketStatus = "TRANSFERRED"
	TicketClaimed     TicketStatus = "CLAIMED"
	TicketValidated   TicketStatus = "VALIDATED"
	TicketCancelled   TicketStatus = "CANCELLED"
	TicketRefunded    TicketStatus = "REFUNDED"
)

// Ticket is one unit of event inventory. A ticket has exactly one owner at
// any time; ownership changes only through transfer completion or pool claim.
// TransferCount counts completed peer-to-peer transfers only; a pool claim
// changes ownership without touching it.
type Ticket struct {
	ID              uint         `json:"id"`
	EventID         uint         `json:"event_id"`
	OwnerID         uint         `json:"owner_id"`
	Status          TicketStatus `json:"status"`
	TicketNumber    string       `json:"ticket_number"`
	QRSeed          string       `json:"qr_seed"`
	TransferCount   int          `json:"transfer_count"`
	IsPooled        bool         `json:"is_pooled"`
	PurchasedAt     time.Time    `json:"purchased_at"`
	TransferredAt   *time.Time   `json:"transferred_at,omitempty"`
	TransferredFrom string       `json:"transferred_from,omitempty"`
	ValidatedAt     *time.Time   `json:"validated_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// CanBeTransferred reports whether the ticket is in a state where a transfer,
// validation or cancellation may start.
func (t *Ticket) CanBeTransferred() bool {
	return t.Status == TicketAvailable
}
