package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/repository/dao"
)

type TicketDAO interface {
	CreateForPurchase(ctx context.Context, eventID uint, tickets []dao.Ticket) ([]dao.Ticket, error)
	FindByID(ctx context.Context, id uint) (dao.Ticket, error)
	FindByOwnerID(ctx context.Context, ownerID uint) ([]dao.Ticket, error)
	FindByTicketNumber(ctx context.Context, number string) (dao.Ticket, error)
	CountByOwnerID(ctx context.Context, ownerID uint) (int64, error)
	Validate(ctx context.Context, ticketID, ownerID uint, validatedAt time.Time) error
	CancelAndRelease(ctx context.Context, ticketID, ownerID, eventID uint) error
}

type TicketRepository struct {
	dao TicketDAO
}

func NewTicketRepository(dao TicketDAO) *TicketRepository {
	return &TicketRepository{
		dao: dao,
	}
}

// CreateForPurchase reserves event capacity and mints the tickets
// all-or-nothing; on CapacityExceeded no tickets exist.
func (r *TicketRepository) CreateForPurchase(ctx context.Context, eventID uint, tickets []domain.Ticket) ([]domain.Ticket, error) {
	daoTickets := make([]dao.Ticket, len(tickets))
	for i, t := range tickets {
		daoTickets[i] = ticketDomainToDao(t)
	}

	created, err := r.dao.CreateForPurchase(ctx, eventID, daoTickets)
	if err != nil {
		return nil, err
	}

	return ticketsDaoToDomain(created), nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id uint) (domain.Ticket, error) {
	ticket, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}

	return ticketDaoToDomain(ticket), nil
}

func (r *TicketRepository) FindByOwnerID(ctx context.Context, ownerID uint) ([]domain.Ticket, error) {
	tickets, err := r.dao.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByOwnerID -> %w", err)
	}

	return ticketsDaoToDomain(tickets), nil
}

func (r *TicketRepository) FindByTicketNumber(ctx context.Context, number string) (domain.Ticket, error) {
	ticket, err := r.dao.FindByTicketNumber(ctx, number)
	if err != nil {
		return domain.Ticket{}, err
	}

	return ticketDaoToDomain(ticket), nil
}

func (r *TicketRepository) CountByOwnerID(ctx context.Context, ownerID uint) (int64, error) {
	return r.dao.CountByOwnerID(ctx, ownerID)
}

func (r *TicketRepository) Validate(ctx context.Context, ticketID, ownerID uint, validatedAt time.Time) error {
	return r.dao.Validate(ctx, ticketID, ownerID, validatedAt)
}

func (r *TicketRepository) CancelAndRelease(ctx context.Context, ticketID, ownerID, eventID uint) error {
	return r.dao.CancelAndRelease(ctx, ticketID, ownerID, eventID)
}

func ticketDomainToDao(t domain.Ticket) dao.Ticket {
	return dao.Ticket{
		ID:              t.ID,
		EventID:         t.EventID,
		OwnerID:         t.OwnerID,
		Status:          string(t.Status),
		TicketNumber:    t.TicketNumber,
		QRSeed:          t.QRSeed,
		TransferCount:   t.TransferCount,
		IsPooled:        t.IsPooled,
		PurchasedAt:     t.PurchasedAt,
		TransferredAt:   t.TransferredAt,
		TransferredFrom: t.TransferredFrom,
		ValidatedAt:     t.ValidatedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func ticketDaoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:              t.ID,
		EventID:         t.EventID,
		OwnerID:         t.OwnerID,
		Status:          domain.TicketStatus(t.Status),
		TicketNumber:    t.TicketNumber,
		QRSeed:          t.QRSeed,
		TransferCount:   t.TransferCount,
		IsPooled:        t.IsPooled,
		PurchasedAt:     t.PurchasedAt,
		TransferredAt:   t.TransferredAt,
		TransferredFrom: t.TransferredFrom,
		ValidatedAt:     t.ValidatedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func ticketsDaoToDomain(tickets []dao.Ticket) []domain.Ticket {
	result := make([]domain.Ticket, len(tickets))
	for i, t := range tickets {
		result[i] = ticketDaoToDomain(t)
	}
	return result
}
