package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Payment records a payment reference and status. The core never calls out
// to a gateway; the surrounding workflow settles the payment and the core
// only keeps the reference.
type Payment struct {
	ID                   uint          `json:"id"`
	UserID               uint          `json:"user_id"`
	Amount               float64       `json:"amount"`
	Status               PaymentStatus `json:"status"`
	GatewayTransactionID string        `json:"gateway_transaction_id"`
	Description          string        `json:"description"`
	FailureReason        string        `json:"failure_reason,omitempty"`
	CompletedAt          *time.Time    `json:"completed_at,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
}
