package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/pkg/clock"
)

type AuditRepository interface {
	Create(ctx context.Context, log domain.AuditLog) (domain.AuditLog, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.AuditLog, error)
}

// AuditRecorder is the fire-and-forget audit sink consulted by the other
// services after every state-changing operation.
type AuditRecorder interface {
	Record(ctx context.Context, userID uint, action, entityType string, entityID uint, details string)
}

type AuditService struct {
	repo  AuditRepository
	clock clock.Clock
}

func NewAuditService(repo AuditRepository, clk clock.Clock) *AuditService {
	return &AuditService{
		repo:  repo,
		clock: clk,
	}
}

// Record writes an audit entry best-effort. A failed write is logged and
// never rolls back the operation it describes.
func (s *AuditService) Record(ctx context.Context, userID uint, action, entityType string, entityID uint, details string) {
	_, err := s.repo.Create(ctx, domain.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  s.clock.Now(),
	})
	if err != nil {
		zap.L().Warn("failed to record audit log",
			zap.Uint("user_id", userID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

func (s *AuditService) GetUserLogs(ctx context.Context, userID uint) ([]domain.AuditLog, error) {
	logs, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return logs, nil
}
