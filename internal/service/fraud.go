package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/antiscalping/tickets/internal/domain"
)

const (
	// maxTransfersAllowed caps completed peer-to-peer transfers per ticket.
	maxTransfersAllowed = 3
	// purchaseVelocityLimit is the lifetime owned-ticket count above which a
	// buyer is blocked. The count is not windowed.
	purchaseVelocityLimit = 5
	// maxPriceIncreasePercent is the resale markup over face value above
	// which a transfer price is anomalous. Exactly 50% passes.
	maxPriceIncreasePercent = 50.0
)

type FraudTicketReader interface {
	FindByID(ctx context.Context, id uint) (domain.Ticket, error)
	CountByOwnerID(ctx context.Context, ownerID uint) (int64, error)
}

// FraudService is a set of stateless policy gates consulted before purchase
// and before transfer initiation. It never mutates state.
type FraudService struct {
	tickets FraudTicketReader
}

func NewFraudService(tickets FraudTicketReader) *FraudService {
	return &FraudService{
		tickets: tickets,
	}
}

// CheckTransferEligibility blocks tickets that already changed hands the
// maximum number of times.
func (s *FraudService) CheckTransferEligibility(ctx context.Context, ticketID uint) error {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return err
	}

	if ticket.TransferCount >= maxTransfersAllowed {
		zap.L().Warn("ticket exceeded max transfers",
			zap.Uint("ticket_id", ticketID),
			zap.Int("transfer_count", ticket.TransferCount),
		)
		return fmt.Errorf("%w: ticket has exceeded maximum transfer limit", domain.ErrFraudDetected)
	}

	return nil
}

// CheckPurchaseVelocity blocks buyers holding more than the allowed number
// of tickets.
func (s *FraudService) CheckPurchaseVelocity(ctx context.Context, userID uint) error {
	count, err := s.tickets.CountByOwnerID(ctx, userID)
	if err != nil {
		return fmt.Errorf("s.tickets.CountByOwnerID -> %w", err)
	}

	if count > purchaseVelocityLimit {
		zap.L().Warn("suspicious purchase velocity",
			zap.Uint("user_id", userID),
			zap.Int64("ticket_count", count),
		)
		return fmt.Errorf("%w: purchase velocity too high", domain.ErrFraudDetected)
	}

	return nil
}

// CheckPriceAnomaly blocks resale prices more than 50% above face value.
// A no-op when either price is absent.
func (s *FraudService) CheckPriceAnomaly(eventPrice float64, transferPrice *float64) error {
	if transferPrice == nil || eventPrice <= 0 {
		return nil
	}

	priceIncrease := (*transferPrice - eventPrice) / eventPrice * 100
	if priceIncrease > maxPriceIncreasePercent {
		zap.L().Warn("transfer price anomaly",
			zap.Float64("event_price", eventPrice),
			zap.Float64("transfer_price", *transferPrice),
			zap.Float64("increase_percent", priceIncrease),
		)
		return fmt.Errorf("%w: transfer price is unreasonably high", domain.ErrFraudDetected)
	}

	return nil
}
