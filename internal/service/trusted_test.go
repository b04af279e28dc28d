package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/pkg/clock"
)

func newTrustedTestSvc(t *testing.T) *TrustedCircleService {
	t.Helper()

	clk := clock.NewFixed(testNow)
	users := newFakeUserRepo(
		domain.User{ID: 1, Email: "alice@example.com", Status: domain.UserActive},
		domain.User{ID: 2, Email: "bob@example.com", Status: domain.UserActive},
	)

	return NewTrustedCircleService(newFakeTrustedRepo(), users, NewAuditService(newFakeAuditRepo(), clk), clk)
}

func TestTrustedCircleService_AddTrustedUser(t *testing.T) {
	svc := newTrustedTestSvc(t)

	circle, err := svc.AddTrustedUser(context.Background(), 1, 2, "family")
	require.NoError(t, err)
	assert.Equal(t, uint(1), circle.UserID)
	assert.Equal(t, uint(2), circle.TrustedUserID)
	assert.Equal(t, "family", circle.Relationship)

	_, err = svc.AddTrustedUser(context.Background(), 1, 2, "family")
	assert.ErrorIs(t, err, domain.ErrAlreadyTrusted)

	_, err = svc.AddTrustedUser(context.Background(), 1, 1, "me")
	assert.ErrorIs(t, err, domain.ErrSelfTrust)

	_, err = svc.AddTrustedUser(context.Background(), 1, 999, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestTrustedCircleService_IsTrusted_Directional(t *testing.T) {
	svc := newTrustedTestSvc(t)

	_, err := svc.AddTrustedUser(context.Background(), 1, 2, "friend")
	require.NoError(t, err)

	trusted, err := svc.IsTrusted(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, trusted)

	reverse, err := svc.IsTrusted(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.False(t, reverse)
}

func TestTrustedCircleService_RemoveTrustedUser(t *testing.T) {
	svc := newTrustedTestSvc(t)

	_, err := svc.AddTrustedUser(context.Background(), 1, 2, "friend")
	require.NoError(t, err)

	err = svc.RemoveTrustedUser(context.Background(), 1, 2)
	require.NoError(t, err)

	circles, err := svc.GetTrustedUsers(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, circles)

	err = svc.RemoveTrustedUser(context.Background(), 1, 2)
	assert.ErrorIs(t, err, domain.ErrTrustedUserNotFound)
}
