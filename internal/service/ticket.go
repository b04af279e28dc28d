package service

import (
	"context"
	"fmt"
	"time"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/pkg/clock"
	"github.com/antiscalping/tickets/internal/pkg/ticketcode"
)

type TicketRepository interface {
	CreateForPurchase(ctx context.Context, eventID uint, tickets []domain.Ticket) ([]domain.Ticket, error)
	FindByID(ctx context.Context, id uint) (domain.Ticket, error)
	FindByOwnerID(ctx context.Context, ownerID uint) ([]domain.Ticket, error)
	FindByTicketNumber(ctx context.Context, number string) (domain.Ticket, error)
	CountByOwnerID(ctx context.Context, ownerID uint) (int64, error)
	Validate(ctx context.Context, ticketID, ownerID uint, validatedAt time.Time) error
	CancelAndRelease(ctx context.Context, ticketID, ownerID, eventID uint) error
}

type TicketService struct {
	repo     TicketRepository
	events   EventRepository
	fraud    *FraudService
	payments *PaymentService
	audit    AuditRecorder
	clock    clock.Clock
}

func NewTicketService(repo TicketRepository, events EventRepository, fraud *FraudService, payments *PaymentService, audit AuditRecorder, clk clock.Clock) *TicketService {
	return &TicketService{
		repo:     repo,
		events:   events,
		fraud:    fraud,
		payments: payments,
		audit:    audit,
		clock:    clk,
	}
}

// Purchase mints quantity tickets for the buyer against the event's
// remaining capacity. Capacity reservation and ticket creation commit in a
// single transaction, so an oversell attempt leaves no tickets behind.
func (s *TicketService) Purchase(ctx context.Context, userID, eventID uint, quantity int) ([]domain.Ticket, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.Status != domain.EventActive {
		return nil, fmt.Errorf("%w: event is not open for sale", domain.ErrInvalidState)
	}

	if event.EventDate.Before(s.clock.Now()) {
		return nil, fmt.Errorf("%w: event has already taken place", domain.ErrInvalidState)
	}

	if err := s.fraud.CheckPurchaseVelocity(ctx, userID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	tickets := make([]domain.Ticket, quantity)
	for i := range tickets {
		tickets[i] = domain.Ticket{
			EventID:      eventID,
			OwnerID:      userID,
			Status:       domain.TicketAvailable,
			TicketNumber: ticketcode.NewTicketNumber(eventID),
			QRSeed:       ticketcode.NewQRSeed(),
			PurchasedAt:  now,
		}
	}

	created, err := s.repo.CreateForPurchase(ctx, eventID, tickets)
	if err != nil {
		return nil, err
	}

	payment, err := s.payments.RecordPurchase(ctx, userID, event.TicketPrice*float64(quantity),
		fmt.Sprintf("purchase of %d ticket(s) for event %q", quantity, event.Name))
	if err != nil {
		return nil, fmt.Errorf("s.payments.RecordPurchase -> %w", err)
	}

	s.audit.Record(ctx, userID, "TICKET_PURCHASE", "Ticket", created[0].ID,
		fmt.Sprintf("%d ticket(s) for event %d, payment %d", quantity, eventID, payment.ID))

	return created, nil
}

func (s *TicketService) GetTicket(ctx context.Context, ticketID, callerID uint) (domain.Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}

	if ticket.OwnerID != callerID {
		return domain.Ticket{}, domain.ErrNotAuthorized
	}

	return ticket, nil
}

// GetTicketByNumber resolves a scanned ticket number. Same visibility rule
// as GetTicket: only the current owner sees the ticket.
func (s *TicketService) GetTicketByNumber(ctx context.Context, number string, callerID uint) (domain.Ticket, error) {
	ticket, err := s.repo.FindByTicketNumber(ctx, number)
	if err != nil {
		return domain.Ticket{}, err
	}

	if ticket.OwnerID != callerID {
		return domain.Ticket{}, domain.ErrNotAuthorized
	}

	return ticket, nil
}

func (s *TicketService) GetUserTickets(ctx context.Context, userID uint) ([]domain.Ticket, error) {
	tickets, err := s.repo.FindByOwnerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByOwnerID -> %w", err)
	}

	return tickets, nil
}

// Validate consumes the ticket at entry. The owner check is part of the
// guarded update, so a ticket whose ownership changed concurrently is
// rejected rather than validated for the wrong holder.
func (s *TicketService) Validate(ctx context.Context, ticketID, callerID uint) error {
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return err
	}

	if ticket.OwnerID != callerID {
		return domain.ErrNotOwner
	}

	if err := s.repo.Validate(ctx, ticketID, callerID, s.clock.Now()); err != nil {
		return err
	}

	s.audit.Record(ctx, callerID, "TICKET_VALIDATED", "Ticket", ticketID, ticket.TicketNumber)

	return nil
}

// Cancel voids the ticket and returns its seat to the event's available
// capacity in the same transaction.
func (s *TicketService) Cancel(ctx context.Context, ticketID, callerID uint) error {
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return err
	}

	if ticket.OwnerID != callerID {
		return domain.ErrNotOwner
	}

	if ticket.IsPooled {
		return fmt.Errorf("%w: ticket is in the pool", domain.ErrInvalidState)
	}

	if err := s.repo.CancelAndRelease(ctx, ticketID, callerID, ticket.EventID); err != nil {
		return err
	}

	s.audit.Record(ctx, callerID, "TICKET_CANCELLED", "Ticket", ticketID, ticket.TicketNumber)

	return nil
}
