package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/pkg/clock"
)

func TestAuthService_SignUpAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, clock.NewFixed(testNow))

	created, err := svc.SignUp(context.Background(), domain.User{
		Email:     "alice@example.com",
		Password:  "password1",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UserActive, created.Status)

	// The stored password is a bcrypt hash, not the plaintext.
	assert.NotEqual(t, "password1", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password1")))

	_, err = svc.SignUp(context.Background(), domain.User{Email: "alice@example.com", Password: "password2"})
	assert.ErrorIs(t, err, domain.ErrUserEmailExists)

	user, err := svc.Login(context.Background(), "alice@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	// An unknown email is indistinguishable from a wrong password.
	_, err = svc.Login(context.Background(), "nobody@example.com", "password1")
	assert.ErrorIs(t, err, domain.ErrWrongPassword)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, clock.NewFixed(testNow))

	created, err := svc.SignUp(context.Background(), domain.User{
		Email:    "banned@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	users.mu.Lock()
	banned := users.users[created.ID]
	banned.Status = domain.UserBanned
	users.users[created.ID] = banned
	users.mu.Unlock()

	_, err = svc.Login(context.Background(), "banned@example.com", "password1")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}
