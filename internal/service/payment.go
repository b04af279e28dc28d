package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/pkg/clock"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	FindByID(ctx context.Context, id uint) (domain.Payment, error)
	UpdateStatus(ctx context.Context, paymentID uint, from domain.PaymentStatus, updates map[string]interface{}) error
}

type PaymentService struct {
	repo  PaymentRepository
	clock clock.Clock
}

func NewPaymentService(repo PaymentRepository, clk clock.Clock) *PaymentService {
	return &PaymentService{
		repo:  repo,
		clock: clk,
	}
}

// RecordPurchase settles a purchase against the simulated gateway. The
// gateway reference is minted locally; reconciliation with a real processor
// happens outside this service.
func (s *PaymentService) RecordPurchase(ctx context.Context, userID uint, amount float64, description string) (domain.Payment, error) {
	payment, err := s.repo.Create(ctx, domain.Payment{
		UserID:               userID,
		Amount:               amount,
		Status:               domain.PaymentPending,
		GatewayTransactionID: uuid.NewString(),
		Description:          description,
		CreatedAt:            s.clock.Now(),
	})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if err := s.Complete(ctx, payment.ID); err != nil {
		return domain.Payment{}, err
	}

	payment.Status = domain.PaymentCompleted

	return payment, nil
}

func (s *PaymentService) Complete(ctx context.Context, paymentID uint) error {
	now := s.clock.Now()
	err := s.repo.UpdateStatus(ctx, paymentID, domain.PaymentPending, map[string]interface{}{
		"status":       string(domain.PaymentCompleted),
		"completed_at": now,
	})
	if err != nil {
		return fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return nil
}

func (s *PaymentService) Fail(ctx context.Context, paymentID uint, reason string) error {
	err := s.repo.UpdateStatus(ctx, paymentID, domain.PaymentPending, map[string]interface{}{
		"status":         string(domain.PaymentFailed),
		"failure_reason": reason,
	})
	if err != nil {
		return fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return nil
}

// Refund reverses a settled payment. Only COMPLETED payments are
// refundable; the state predicate rejects everything else.
func (s *PaymentService) Refund(ctx context.Context, paymentID uint) error {
	err := s.repo.UpdateStatus(ctx, paymentID, domain.PaymentCompleted, map[string]interface{}{
		"status": string(domain.PaymentRefunded),
	})
	if err != nil {
		return fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return nil
}

func (s *PaymentService) GetPayment(ctx context.Context, paymentID, callerID uint) (domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return domain.Payment{}, err
	}

	if payment.UserID != callerID {
		return domain.Payment{}, domain.ErrNotAuthorized
	}

	return payment, nil
}
