package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/repository/dao"
)

type PoolTicketDAO interface {
	AddToPool(ctx context.Context, poolTicket dao.PoolTicket) (dao.PoolTicket, error)
	FindByID(ctx context.Context, id uint) (dao.PoolTicket, error)
	FindByEventID(ctx context.Context, eventID uint) ([]dao.PoolTicket, error)
	FindByEventIDAndStatus(ctx context.Context, eventID uint, status string) ([]dao.PoolTicket, error)
	Nominate(ctx context.Context, poolTicketID, nominatedUserID uint, expiresAt time.Time) error
	Claim(ctx context.Context, poolTicketID, ticketID, newOwnerID uint, claimedAt time.Time) error
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

type PoolTicketRepository struct {
	dao PoolTicketDAO
}

func NewPoolTicketRepository(dao PoolTicketDAO) *PoolTicketRepository {
	return &PoolTicketRepository{
		dao: dao,
	}
}

func (r *PoolTicketRepository) Add(ctx context.Context, poolTicket domain.PoolTicket) (domain.PoolTicket, error) {
	created, err := r.dao.AddToPool(ctx, poolDomainToDao(poolTicket))
	if err != nil {
		return domain.PoolTicket{}, err
	}

	return poolDaoToDomain(created), nil
}

func (r *PoolTicketRepository) FindByID(ctx context.Context, id uint) (domain.PoolTicket, error) {
	poolTicket, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.PoolTicket{}, err
	}

	return poolDaoToDomain(poolTicket), nil
}

func (r *PoolTicketRepository) FindByEventID(ctx context.Context, eventID uint) ([]domain.PoolTicket, error) {
	poolTickets, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return poolsDaoToDomain(poolTickets), nil
}

func (r *PoolTicketRepository) FindByEventIDAndStatus(ctx context.Context, eventID uint, status domain.PoolStatus) ([]domain.PoolTicket, error) {
	poolTickets, err := r.dao.FindByEventIDAndStatus(ctx, eventID, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventIDAndStatus -> %w", err)
	}

	return poolsDaoToDomain(poolTickets), nil
}

func (r *PoolTicketRepository) Nominate(ctx context.Context, poolTicketID, nominatedUserID uint, expiresAt time.Time) error {
	return r.dao.Nominate(ctx, poolTicketID, nominatedUserID, expiresAt)
}

func (r *PoolTicketRepository) Claim(ctx context.Context, poolTicketID, ticketID, newOwnerID uint, claimedAt time.Time) error {
	return r.dao.Claim(ctx, poolTicketID, ticketID, newOwnerID, claimedAt)
}

func (r *PoolTicketRepository) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	return r.dao.ExpireLapsed(ctx, now)
}

func poolDomainToDao(p domain.PoolTicket) dao.PoolTicket {
	return dao.PoolTicket{
		ID:                  p.ID,
		TicketID:            p.TicketID,
		EventID:             p.EventID,
		Status:              string(p.Status),
		NominatedUserID:     p.NominatedUserID,
		NominationExpiresAt: p.NominationExpiresAt,
		AddedAt:             p.AddedAt,
		ClaimedAt:           p.ClaimedAt,
		CreatedAt:           p.CreatedAt,
	}
}

func poolDaoToDomain(p dao.PoolTicket) domain.PoolTicket {
	return domain.PoolTicket{
		ID:                  p.ID,
		TicketID:            p.TicketID,
		EventID:             p.EventID,
		Status:              domain.PoolStatus(p.Status),
		NominatedUserID:     p.NominatedUserID,
		NominationExpiresAt: p.NominationExpiresAt,
		AddedAt:             p.AddedAt,
		ClaimedAt:           p.ClaimedAt,
		CreatedAt:           p.CreatedAt,
	}
}

func poolsDaoToDomain(poolTickets []dao.PoolTicket) []domain.PoolTicket {
	result := make([]domain.PoolTicket, len(poolTickets))
	for i, p := range poolTickets {
		result[i] = poolDaoToDomain(p)
	}
	return result
}
