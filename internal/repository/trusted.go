package repository

import (
	"context"
	"fmt"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/repository/dao"
)

type TrustedCircleDAO interface {
	Insert(ctx context.Context, circle dao.TrustedCircle) (dao.TrustedCircle, error)
	Exists(ctx context.Context, userID, trustedUserID uint) (bool, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.TrustedCircle, error)
	Delete(ctx context.Context, userID, trustedUserID uint) error
}

type TrustedCircleRepository struct {
	dao TrustedCircleDAO
}

func NewTrustedCircleRepository(dao TrustedCircleDAO) *TrustedCircleRepository {
	return &TrustedCircleRepository{
		dao: dao,
	}
}

func (r *TrustedCircleRepository) Create(ctx context.Context, circle domain.TrustedCircle) (domain.TrustedCircle, error) {
	created, err := r.dao.Insert(ctx, circleDomainToDao(circle))
	if err != nil {
		return domain.TrustedCircle{}, err
	}

	return circleDaoToDomain(created), nil
}

func (r *TrustedCircleRepository) Exists(ctx context.Context, userID, trustedUserID uint) (bool, error) {
	return r.dao.Exists(ctx, userID, trustedUserID)
}

func (r *TrustedCircleRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.TrustedCircle, error) {
	circles, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	result := make([]domain.TrustedCircle, len(circles))
	for i, c := range circles {
		result[i] = circleDaoToDomain(c)
	}

	return result, nil
}

func (r *TrustedCircleRepository) Delete(ctx context.Context, userID, trustedUserID uint) error {
	return r.dao.Delete(ctx, userID, trustedUserID)
}

func circleDomainToDao(c domain.TrustedCircle) dao.TrustedCircle {
	return dao.TrustedCircle{
		ID:            c.ID,
		UserID:        c.UserID,
		TrustedUserID: c.TrustedUserID,
		Relationship:  c.Relationship,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func circleDaoToDomain(c dao.TrustedCircle) domain.TrustedCircle {
	return domain.TrustedCircle{
		ID:            c.ID,
		UserID:        c.UserID,
		TrustedUserID: c.TrustedUserID,
		Relationship:  c.Relationship,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
