package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/pkg/clock"
)

type PoolTicketRepository interface {
	Add(ctx context.Context, poolTicket domain.PoolTicket) (domain.PoolTicket, error)
	FindByID(ctx context.Context, id uint) (domain.PoolTicket, error)
	FindByEventID(ctx context.Context, eventID uint) ([]domain.PoolTicket, error)
	FindByEventIDAndStatus(ctx context.Context, eventID uint, status domain.PoolStatus) ([]domain.PoolTicket, error)
	Nominate(ctx context.Context, poolTicketID, nominatedUserID uint, expiresAt time.Time) error
	Claim(ctx context.Context, poolTicketID, ticketID, newOwnerID uint, claimedAt time.Time) error
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

type PoolService struct {
	repo      PoolTicketRepository
	tickets   TicketRepository
	transfers TicketTransferRepository
	users     UserRepository
	audit     AuditRecorder
	clock     clock.Clock
}

func NewPoolService(repo PoolTicketRepository, tickets TicketRepository, transfers TicketTransferRepository, users UserRepository, audit AuditRecorder, clk clock.Clock) *PoolService {
	return &PoolService{
		repo:      repo,
		tickets:   tickets,
		transfers: transfers,
		users:     users,
		audit:     audit,
		clock:     clk,
	}
}

// AddToPool releases the caller's ticket into the event pool. The pooled
// flag flips inside the insert transaction, so a ticket can never sit in the
// pool twice.
func (s *PoolService) AddToPool(ctx context.Context, ticketID, callerID uint) (domain.PoolTicket, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return domain.PoolTicket{}, err
	}

	if ticket.OwnerID != callerID {
		return domain.PoolTicket{}, domain.ErrNotOwner
	}

	if !ticket.CanBeTransferred() {
		return domain.PoolTicket{}, fmt.Errorf("%w: ticket cannot be pooled in status %s", domain.ErrInvalidState, ticket.Status)
	}

	poolTicket, err := s.repo.Add(ctx, domain.PoolTicket{
		TicketID: ticketID,
		EventID:  ticket.EventID,
		Status:   domain.PoolAvailable,
		AddedAt:  s.clock.Now(),
	})
	if err != nil {
		return domain.PoolTicket{}, err
	}

	s.audit.Record(ctx, callerID, "POOL_TICKET_ADDED", "PoolTicket", poolTicket.ID, ticket.TicketNumber)

	return poolTicket, nil
}

// Nominate reserves an available pooled ticket for one user. The nominee has
// a fixed window to claim before the nomination lapses.
func (s *PoolService) Nominate(ctx context.Context, poolTicketID, nominatedUserID, callerID uint) (domain.PoolTicket, error) {
	if _, err := s.users.FindByID(ctx, nominatedUserID); err != nil {
		return domain.PoolTicket{}, err
	}

	if _, err := s.repo.FindByID(ctx, poolTicketID); err != nil {
		return domain.PoolTicket{}, err
	}

	expiresAt := s.clock.Now().Add(domain.NominationWindow)
	if err := s.repo.Nominate(ctx, poolTicketID, nominatedUserID, expiresAt); err != nil {
		return domain.PoolTicket{}, err
	}

	s.audit.Record(ctx, callerID, "POOL_TICKET_NOMINATED", "PoolTicket", poolTicketID,
		fmt.Sprintf("nominated user %d until %s", nominatedUserID, expiresAt.Format(time.RFC3339)))

	poolTicket, err := s.repo.FindByID(ctx, poolTicketID)
	if err != nil {
		return domain.PoolTicket{}, err
	}

	return poolTicket, nil
}

// Claim hands the pooled ticket to its nominee. Ownership moves without
// touching the ticket's transfer count; pool claims are not resales. Under
// concurrent claims the guarded pool update picks exactly one winner.
func (s *PoolService) Claim(ctx context.Context, poolTicketID, callerID uint) error {
	poolTicket, err := s.repo.FindByID(ctx, poolTicketID)
	if err != nil {
		return err
	}

	if poolTicket.Status != domain.PoolNominated {
		return fmt.Errorf("%w: pool ticket is not nominated", domain.ErrInvalidState)
	}

	if poolTicket.NominatedUserID == nil || *poolTicket.NominatedUserID != callerID {
		return domain.ErrNotNominated
	}

	now := s.clock.Now()
	if poolTicket.NominationExpired(now) {
		return domain.ErrNominationExpired
	}

	ticket, err := s.tickets.FindByID(ctx, poolTicket.TicketID)
	if err != nil {
		return err
	}

	if err := s.repo.Claim(ctx, poolTicketID, poolTicket.TicketID, callerID, now); err != nil {
		return err
	}

	// The claim is already committed; the transfer row is the paper trail.
	_, err = s.transfers.Create(ctx, domain.TicketTransfer{
		TicketID:     poolTicket.TicketID,
		FromUserID:   ticket.OwnerID,
		ToUserID:     callerID,
		TransferType: domain.TransferPoolClaim,
		Status:       domain.TransferCompleted,
		RequestedAt:  now,
		CompletedAt:  &now,
	})
	if err != nil {
		zap.L().Warn("failed to record pool claim transfer",
			zap.Uint("pool_ticket_id", poolTicketID),
			zap.Error(err),
		)
	}

	s.audit.Record(ctx, callerID, "POOL_TICKET_CLAIMED", "PoolTicket", poolTicketID, ticket.TicketNumber)

	return nil
}

func (s *PoolService) GetEventPool(ctx context.Context, eventID uint) ([]domain.PoolTicket, error) {
	poolTickets, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEventID -> %w", err)
	}

	return poolTickets, nil
}

func (s *PoolService) GetAvailablePoolTickets(ctx context.Context, eventID uint) ([]domain.PoolTicket, error) {
	poolTickets, err := s.repo.FindByEventIDAndStatus(ctx, eventID, domain.PoolAvailable)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEventIDAndStatus -> %w", err)
	}

	return poolTickets, nil
}

// ExpireLapsedNominations sweeps nominations whose window has passed back to
// EXPIRED. Claim checks expiry itself, so the sweep is bookkeeping rather
// than a correctness requirement.
func (s *PoolService) ExpireLapsedNominations(ctx context.Context) (int64, error) {
	expired, err := s.repo.ExpireLapsed(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("s.repo.ExpireLapsed -> %w", err)
	}

	if expired > 0 {
		zap.L().Info("expired lapsed nominations", zap.Int64("count", expired))
	}

	return expired, nil
}
