package repository

import (
	"context"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/repository/dao"
)

type PaymentDAO interface {
	Insert(ctx context.Context, payment dao.Payment) (dao.Payment, error)
	FindByID(ctx context.Context, id uint) (dao.Payment, error)
	UpdateStatus(ctx context.Context, paymentID uint, fromStatus string, updates map[string]interface{}) error
}

type PaymentRepository struct {
	dao PaymentDAO
}

func NewPaymentRepository(dao PaymentDAO) *PaymentRepository {
	return &PaymentRepository{
		dao: dao,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	created, err := r.dao.Insert(ctx, paymentDomainToDao(payment))
	if err != nil {
		return domain.Payment{}, err
	}

	return paymentDaoToDomain(created), nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uint) (domain.Payment, error) {
	payment, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Payment{}, err
	}

	return paymentDaoToDomain(payment), nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, paymentID uint, from domain.PaymentStatus, updates map[string]interface{}) error {
	return r.dao.UpdateStatus(ctx, paymentID, string(from), updates)
}

func paymentDomainToDao(p domain.Payment) dao.Payment {
	return dao.Payment{
		ID:                   p.ID,
		UserID:               p.UserID,
		Amount:               p.Amount,
		Status:               string(p.Status),
		GatewayTransactionID: p.GatewayTransactionID,
		Description:          p.Description,
		FailureReason:        p.FailureReason,
		CompletedAt:          p.CompletedAt,
		CreatedAt:            p.CreatedAt,
	}
}

func paymentDaoToDomain(p dao.Payment) domain.Payment {
	return domain.Payment{
		ID:                   p.ID,
		UserID:               p.UserID,
		Amount:               p.Amount,
		Status:               domain.PaymentStatus(p.Status),
		GatewayTransactionID: p.GatewayTransactionID,
		Description:          p.Description,
		FailureReason:        p.FailureReason,
		CompletedAt:          p.CompletedAt,
		CreatedAt:            p.CreatedAt,
	}
}
