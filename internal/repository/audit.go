package repository

import (
	"context"
	"fmt"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/repository/dao"
)

type AuditLogDAO interface {
	Insert(ctx context.Context, log dao.AuditLog) (dao.AuditLog, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.AuditLog, error)
}

type AuditLogRepository struct {
	dao AuditLogDAO
}

func NewAuditLogRepository(dao AuditLogDAO) *AuditLogRepository {
	return &AuditLogRepository{
		dao: dao,
	}
}

func (r *AuditLogRepository) Create(ctx context.Context, log domain.AuditLog) (domain.AuditLog, error) {
	created, err := r.dao.Insert(ctx, dao.AuditLog{
		ID:         log.ID,
		UserID:     log.UserID,
		Action:     log.Action,
		EntityType: log.EntityType,
		EntityID:   log.EntityID,
		Details:    log.Details,
		CreatedAt:  log.CreatedAt,
	})
	if err != nil {
		return domain.AuditLog{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return auditDaoToDomain(created), nil
}

func (r *AuditLogRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.AuditLog, error) {
	logs, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	result := make([]domain.AuditLog, len(logs))
	for i, l := range logs {
		result[i] = auditDaoToDomain(l)
	}

	return result, nil
}

func auditDaoToDomain(l dao.AuditLog) domain.AuditLog {
	return domain.AuditLog{
		ID:         l.ID,
		UserID:     l.UserID,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Details:    l.Details,
		CreatedAt:  l.CreatedAt,
	}
}
