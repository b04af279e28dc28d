package service

import (
	"context"
	"fmt"
	"time"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/pkg/clock"
)

type TicketTransferRepository interface {
	Create(ctx context.Context, transfer domain.TicketTransfer) (domain.TicketTransfer, error)
	FindByID(ctx context.Context, id uint) (domain.TicketTransfer, error)
	Approve(ctx context.Context, transferID uint, approvedAt time.Time) error
	Complete(ctx context.Context, transfer domain.TicketTransfer, transferredFrom string, completedAt time.Time) error
	Reject(ctx context.Context, transferID uint) error
}

// InitiateTransferInput carries the sender's transfer proposal.
type InitiateTransferInput struct {
	TicketID      uint
	ToUserID      uint
	TransferType  domain.TransferType
	TransferPrice *float64
	TransferNotes string
}

type TransferService struct {
	repo    TicketTransferRepository
	tickets TicketRepository
	events  EventRepository
	users   UserRepository
	trusted TrustedCircleRepository
	fraud   *FraudService
	audit   AuditRecorder
	clock   clock.Clock
}

func NewTransferService(repo TicketTransferRepository, tickets TicketRepository, events EventRepository, users UserRepository, trusted TrustedCircleRepository, fraud *FraudService, audit AuditRecorder, clk clock.Clock) *TransferService {
	return &TransferService{
		repo:    repo,
		tickets: tickets,
		events:  events,
		users:   users,
		trusted: trusted,
		fraud:   fraud,
		audit:   audit,
		clock:   clk,
	}
}

// Initiate opens a PENDING transfer after every fraud gate passes. The gates
// run before the transfer row exists, so a blocked proposal leaves no trace
// beyond the audit trail.
func (s *TransferService) Initiate(ctx context.Context, callerID uint, in InitiateTransferInput) (domain.TicketTransfer, error) {
	ticket, err := s.tickets.FindByID(ctx, in.TicketID)
	if err != nil {
		return domain.TicketTransfer{}, err
	}

	if ticket.OwnerID != callerID {
		return domain.TicketTransfer{}, domain.ErrNotOwner
	}

	if !ticket.CanBeTransferred() {
		return domain.TicketTransfer{}, fmt.Errorf("%w: ticket cannot be transferred in status %s", domain.ErrInvalidState, ticket.Status)
	}

	if ticket.IsPooled {
		return domain.TicketTransfer{}, fmt.Errorf("%w: ticket is in the pool", domain.ErrInvalidState)
	}

	if in.ToUserID == callerID {
		return domain.TicketTransfer{}, fmt.Errorf("%w: cannot transfer a ticket to yourself", domain.ErrInvalidState)
	}

	if _, err := s.users.FindByID(ctx, in.ToUserID); err != nil {
		return domain.TicketTransfer{}, err
	}

	switch in.TransferType {
	case domain.TransferTrustedCircle:
		trusted, err := s.trusted.Exists(ctx, callerID, in.ToUserID)
		if err != nil {
			return domain.TicketTransfer{}, fmt.Errorf("s.trusted.Exists -> %w", err)
		}
		if !trusted {
			return domain.TicketTransfer{}, domain.ErrNotTrusted
		}
	case domain.TransferControlled:
		// No relationship requirement; fraud gates still apply.
	default:
		return domain.TicketTransfer{}, domain.ErrInvalidTransferType
	}

	if err := s.fraud.CheckTransferEligibility(ctx, in.TicketID); err != nil {
		return domain.TicketTransfer{}, err
	}

	event, err := s.events.FindByID(ctx, ticket.EventID)
	if err != nil {
		return domain.TicketTransfer{}, err
	}

	if err := s.fraud.CheckPriceAnomaly(event.TicketPrice, in.TransferPrice); err != nil {
		return domain.TicketTransfer{}, err
	}

	transfer, err := s.repo.Create(ctx, domain.TicketTransfer{
		TicketID:      in.TicketID,
		FromUserID:    callerID,
		ToUserID:      in.ToUserID,
		TransferType:  in.TransferType,
		Status:        domain.TransferPending,
		TransferPrice: in.TransferPrice,
		TransferNotes: in.TransferNotes,
		RequestedAt:   s.clock.Now(),
	})
	if err != nil {
		return domain.TicketTransfer{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.audit.Record(ctx, callerID, "TRANSFER_INITIATED", "TicketTransfer", transfer.ID,
		fmt.Sprintf("ticket %d to user %d (%s)", in.TicketID, in.ToUserID, in.TransferType))

	return transfer, nil
}

// Approve is the recipient accepting the proposal.
func (s *TransferService) Approve(ctx context.Context, transferID, callerID uint) error {
	transfer, err := s.repo.FindByID(ctx, transferID)
	if err != nil {
		return err
	}

	if transfer.ToUserID != callerID {
		return domain.ErrNotAuthorized
	}

	if err := s.repo.Approve(ctx, transferID, s.clock.Now()); err != nil {
		return err
	}

	s.audit.Record(ctx, callerID, "TRANSFER_APPROVED", "TicketTransfer", transferID, "")

	return nil
}

// Complete moves ownership. The ticket update is guarded on the sender still
// owning an unpooled ticket, so a concurrent pool claim and a transfer
// completion can never both move the same ticket.
func (s *TransferService) Complete(ctx context.Context, transferID, callerID uint) error {
	transfer, err := s.repo.FindByID(ctx, transferID)
	if err != nil {
		return err
	}

	if transfer.FromUserID != callerID {
		return domain.ErrNotAuthorized
	}

	sender, err := s.users.FindByID(ctx, transfer.FromUserID)
	if err != nil {
		return err
	}

	if err := s.repo.Complete(ctx, transfer, sender.Email, s.clock.Now()); err != nil {
		return err
	}

	s.audit.Record(ctx, callerID, "TRANSFER_COMPLETED", "TicketTransfer", transferID,
		fmt.Sprintf("ticket %d now owned by user %d", transfer.TicketID, transfer.ToUserID))

	return nil
}

// Reject declines the proposal. Rejection is accepted from any status; a
// completed transfer has already moved the ticket and rejecting it only
// marks the record, it never unwinds ownership.
func (s *TransferService) Reject(ctx context.Context, transferID, callerID uint) error {
	transfer, err := s.repo.FindByID(ctx, transferID)
	if err != nil {
		return err
	}

	if transfer.ToUserID != callerID {
		return domain.ErrNotAuthorized
	}

	if err := s.repo.Reject(ctx, transferID); err != nil {
		return err
	}

	s.audit.Record(ctx, callerID, "TRANSFER_REJECTED", "TicketTransfer", transferID, "")

	return nil
}

func (s *TransferService) GetTransfer(ctx context.Context, transferID, callerID uint) (domain.TicketTransfer, error) {
	transfer, err := s.repo.FindByID(ctx, transferID)
	if err != nil {
		return domain.TicketTransfer{}, err
	}

	if transfer.FromUserID != callerID && transfer.ToUserID != callerID {
		return domain.TicketTransfer{}, domain.ErrNotAuthorized
	}

	return transfer, nil
}
