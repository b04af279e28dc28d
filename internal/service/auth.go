package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/pkg/clock"
)

type AuthService struct {
	users UserRepository
	clock clock.Clock
}

func NewAuthService(users UserRepository, clk clock.Clock) *AuthService {
	return &AuthService{
		users: users,
		clock: clk,
	}
}

// SignUp registers a new account with a bcrypt password hash.
func (s *AuthService) SignUp(ctx context.Context, user domain.User) (domain.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	user.Password = string(hashed)
	user.Status = domain.UserActive
	user.CreatedAt = s.clock.Now()

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return domain.User{}, err
	}

	return created, nil
}

// Login verifies credentials. A missing account and a wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrWrongPassword
		}
		return domain.User{}, fmt.Errorf("s.users.FindByEmail -> %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, domain.ErrWrongPassword
	}

	if user.Status != domain.UserActive {
		return domain.User{}, domain.ErrNotAuthorized
	}

	return user, nil
}
