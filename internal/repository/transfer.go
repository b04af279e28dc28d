package repository

import (
	"context"
	"time"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/repository/dao"
)

type TicketTransferDAO interface {
	Insert(ctx context.Context, transfer dao.TicketTransfer) (dao.TicketTransfer, error)
	FindByID(ctx context.Context, id uint) (dao.TicketTransfer, error)
	Approve(ctx context.Context, transferID uint, approvedAt time.Time) error
	Complete(ctx context.Context, transfer dao.TicketTransfer, transferredFrom string, completedAt time.Time) error
	Reject(ctx context.Context, transferID uint) error
}

type TicketTransferRepository struct {
	dao TicketTransferDAO
}

func NewTicketTransferRepository(dao TicketTransferDAO) *TicketTransferRepository {
	return &TicketTransferRepository{
		dao: dao,
	}
}

func (r *TicketTransferRepository) Create(ctx context.Context, transfer domain.TicketTransfer) (domain.TicketTransfer, error) {
	created, err := r.dao.Insert(ctx, transferDomainToDao(transfer))
	if err != nil {
		return domain.TicketTransfer{}, err
	}

	return transferDaoToDomain(created), nil
}

func (r *TicketTransferRepository) FindByID(ctx context.Context, id uint) (domain.TicketTransfer, error) {
	transfer, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.TicketTransfer{}, err
	}

	return transferDaoToDomain(transfer), nil
}

func (r *TicketTransferRepository) Approve(ctx context.Context, transferID uint, approvedAt time.Time) error {
	return r.dao.Approve(ctx, transferID, approvedAt)
}

func (r *TicketTransferRepository) Complete(ctx context.Context, transfer domain.TicketTransfer, transferredFrom string, completedAt time.Time) error {
	return r.dao.Complete(ctx, transferDomainToDao(transfer), transferredFrom, completedAt)
}

func (r *TicketTransferRepository) Reject(ctx context.Context, transferID uint) error {
	return r.dao.Reject(ctx, transferID)
}

func transferDomainToDao(t domain.TicketTransfer) dao.TicketTransfer {
	return dao.TicketTransfer{
		ID:            t.ID,
		TicketID:      t.TicketID,
		FromUserID:    t.FromUserID,
		ToUserID:      t.ToUserID,
		TransferType:  string(t.TransferType),
		Status:        string(t.Status),
		TransferPrice: t.TransferPrice,
		TransferNotes: t.TransferNotes,
		RequestedAt:   t.RequestedAt,
		ApprovedAt:    t.ApprovedAt,
		CompletedAt:   t.CompletedAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func transferDaoToDomain(t dao.TicketTransfer) domain.TicketTransfer {
	return domain.TicketTransfer{
		ID:            t.ID,
		TicketID:      t.TicketID,
		FromUserID:    t.FromUserID,
		ToUserID:      t.ToUserID,
		TransferType:  domain.TransferType(t.TransferType),
		Status:        domain.TransferStatus(t.Status),
		TransferPrice: t.TransferPrice,
		TransferNotes: t.TransferNotes,
		RequestedAt:   t.RequestedAt,
		ApprovedAt:    t.ApprovedAt,
		CompletedAt:   t.CompletedAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
