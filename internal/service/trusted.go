package service

import (
	"context"
	"fmt"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/pkg/clock"
)

type TrustedCircleRepository interface {
	Create(ctx context.Context, circle domain.TrustedCircle) (domain.TrustedCircle, error)
	Exists(ctx context.Context, userID, trustedUserID uint) (bool, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.TrustedCircle, error)
	Delete(ctx context.Context, userID, trustedUserID uint) error
}

type TrustedCircleService struct {
	repo  TrustedCircleRepository
	users UserRepository
	audit AuditRecorder
	clock clock.Clock
}

func NewTrustedCircleService(repo TrustedCircleRepository, users UserRepository, audit AuditRecorder, clk clock.Clock) *TrustedCircleService {
	return &TrustedCircleService{
		repo:  repo,
		users: users,
		audit: audit,
		clock: clk,
	}
}

// AddTrustedUser records a one-way trust edge. Trust is directional; the
// reverse edge requires its own call by the other user.
func (s *TrustedCircleService) AddTrustedUser(ctx context.Context, userID, trustedUserID uint, relationship string) (domain.TrustedCircle, error) {
	if userID == trustedUserID {
		return domain.TrustedCircle{}, domain.ErrSelfTrust
	}

	if _, err := s.users.FindByID(ctx, trustedUserID); err != nil {
		return domain.TrustedCircle{}, err
	}

	circle, err := s.repo.Create(ctx, domain.TrustedCircle{
		UserID:        userID,
		TrustedUserID: trustedUserID,
		Relationship:  relationship,
		CreatedAt:     s.clock.Now(),
	})
	if err != nil {
		return domain.TrustedCircle{}, err
	}

	s.audit.Record(ctx, userID, "TRUSTED_USER_ADDED", "TrustedCircle", circle.ID,
		fmt.Sprintf("trusted user %d (%s)", trustedUserID, relationship))

	return circle, nil
}

func (s *TrustedCircleService) GetTrustedUsers(ctx context.Context, userID uint) ([]domain.TrustedCircle, error) {
	circles, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return circles, nil
}

func (s *TrustedCircleService) IsTrusted(ctx context.Context, userID, trustedUserID uint) (bool, error) {
	trusted, err := s.repo.Exists(ctx, userID, trustedUserID)
	if err != nil {
		return false, fmt.Errorf("s.repo.Exists -> %w", err)
	}

	return trusted, nil
}

func (s *TrustedCircleService) RemoveTrustedUser(ctx context.Context, userID, trustedUserID uint) error {
	if err := s.repo.Delete(ctx, userID, trustedUserID); err != nil {
		return err
	}

	s.audit.Record(ctx, userID, "TRUSTED_USER_REMOVED", "TrustedCircle", trustedUserID, "")

	return nil
}
