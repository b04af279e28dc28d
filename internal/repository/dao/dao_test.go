package dao_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/antiscalping/tickets/internal/db"
	"github.com/antiscalping/tickets/internal/domain"
	"github.com/antiscalping/tickets/internal/repository/dao"
)

var (
	testDB *gorm.DB
	seq    atomic.Uint64
)

// TestMain starts a throwaway postgres container for the whole package.
// Without a reachable Docker daemon every test in the package skips.
func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker is not available, skipping dao tests: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=tickets",
			"POSTGRES_PASSWORD=tickets",
			"POSTGRES_DB=tickets_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	_ = resource.Expire(300)

	url := fmt.Sprintf("postgres://tickets:tickets@%v/tickets_test?sslmode=disable",
		resource.GetHostPort("5432/tcp"))

	pool.MaxWait = 2 * time.Minute
	if err = pool.Retry(func() error {
		testDB, err = db.OpenPostgresWithURL(url)
		return err
	}); err != nil {
		log.Fatalf("could not connect to postgres container: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testDB == nil {
		t.Skip("docker is not available")
	}

	return testDB
}

func createUser(t *testing.T, gormDB *gorm.DB) dao.User {
	t.Helper()

	user, err := dao.NewUserDAO(gormDB).Insert(context.Background(), dao.User{
		Email:    fmt.Sprintf("user-%v@example.com", seq.Add(1)),
		Password: "hashed",
		Status:   string(domain.UserActive),
	})
	require.NoError(t, err)

	return user
}

func createEvent(t *testing.T, gormDB *gorm.DB, capacity int, price float64) dao.Event {
	t.Helper()

	event, err := dao.NewEventDAO(gormDB).Insert(context.Background(), dao.Event{
		Name:             fmt.Sprintf("Event %v", seq.Add(1)),
		EventDate:        time.Now().Add(30 * 24 * time.Hour),
		Venue:            "Arena",
		TotalCapacity:    capacity,
		AvailableTickets: capacity,
		TicketPrice:      price,
		Status:           string(domain.EventActive),
	})
	require.NoError(t, err)

	return event
}

func createTicket(t *testing.T, gormDB *gorm.DB, eventID, ownerID uint) dao.Ticket {
	t.Helper()

	tickets, err := dao.NewTicketDAO(gormDB).CreateForPurchase(context.Background(), eventID, []dao.Ticket{{
		EventID:      eventID,
		OwnerID:      ownerID,
		Status:       string(domain.TicketAvailable),
		TicketNumber: fmt.Sprintf("TKT-%v", seq.Add(1)),
		QRSeed:       fmt.Sprintf("seed-%v", seq.Add(1)),
		PurchasedAt:  time.Now(),
	}})
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	return tickets[0]
}

func TestEventDAO_ReserveAndRelease(t *testing.T) {
	gormDB := requireDB(t)
	eventDAO := dao.NewEventDAO(gormDB)

	event := createEvent(t, gormDB, 2, 50)

	require.NoError(t, eventDAO.ReserveTickets(context.Background(), event.ID, 1))

	// One seat left; asking for two must fail without touching the counter.
	err := eventDAO.ReserveTickets(context.Background(), event.ID, 2)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	reloaded, err := eventDAO.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.AvailableTickets)

	// A release never overshoots total capacity.
	require.NoError(t, eventDAO.ReleaseTickets(context.Background(), event.ID, 5))

	reloaded, err = eventDAO.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.AvailableTickets)

	err = eventDAO.ReserveTickets(context.Background(), 999999, 1)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventDAO_ConcurrentReserveLastSeat(t *testing.T) {
	gormDB := requireDB(t)
	eventDAO := dao.NewEventDAO(gormDB)

	event := createEvent(t, gormDB, 1, 50)

	const attempts = 8
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- eventDAO.ReserveTickets(context.Background(), event.ID, 1)
		}()
	}
	wg.Wait()
	close(results)

	var wins int
	for err := range results {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, domain.ErrCapacityExceeded)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestTicketDAO_CreateForPurchase(t *testing.T) {
	gormDB := requireDB(t)
	ticketDAO := dao.NewTicketDAO(gormDB)
	eventDAO := dao.NewEventDAO(gormDB)

	owner := createUser(t, gormDB)
	event := createEvent(t, gormDB, 2, 50)

	mint := func(n int) []dao.Ticket {
		tickets := make([]dao.Ticket, 0, n)
		for i := 0; i < n; i++ {
			tickets = append(tickets, dao.Ticket{
				EventID:      event.ID,
				OwnerID:      owner.ID,
				Status:       string(domain.TicketAvailable),
				TicketNumber: fmt.Sprintf("TKT-%v", seq.Add(1)),
				QRSeed:       fmt.Sprintf("seed-%v", seq.Add(1)),
				PurchasedAt:  time.Now(),
			})
		}
		return tickets
	}

	// Over capacity: the whole purchase rolls back, nothing is minted.
	_, err := ticketDAO.CreateForPurchase(context.Background(), event.ID, mint(3))
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	owned, err := ticketDAO.FindByOwnerID(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Empty(t, owned)

	created, err := ticketDAO.CreateForPurchase(context.Background(), event.ID, mint(2))
	require.NoError(t, err)
	assert.Len(t, created, 2)

	reloaded, err := eventDAO.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.AvailableTickets)
}

func TestTicketDAO_CreateForPurchase_DuplicateNumber(t *testing.T) {
	gormDB := requireDB(t)
	ticketDAO := dao.NewTicketDAO(gormDB)
	eventDAO := dao.NewEventDAO(gormDB)

	owner := createUser(t, gormDB)
	event := createEvent(t, gormDB, 5, 50)
	ticket := createTicket(t, gormDB, event.ID, owner.ID)

	_, err := ticketDAO.CreateForPurchase(context.Background(), event.ID, []dao.Ticket{{
		EventID:      event.ID,
		OwnerID:      owner.ID,
		Status:       string(domain.TicketAvailable),
		TicketNumber: ticket.TicketNumber,
		QRSeed:       "seed-dup",
		PurchasedAt:  time.Now(),
	}})
	assert.ErrorIs(t, err, dao.ErrTicketNumberExists)

	// The failed mint released its reservation with the rollback.
	reloaded, err := eventDAO.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.AvailableTickets)
}

func TestTicketDAO_Validate(t *testing.T) {
	gormDB := requireDB(t)
	ticketDAO := dao.NewTicketDAO(gormDB)

	owner := createUser(t, gormDB)
	stranger := createUser(t, gormDB)
	event := createEvent(t, gormDB, 5, 50)
	ticket := createTicket(t, gormDB, event.ID, owner.ID)

	err := ticketDAO.Validate(context.Background(), ticket.ID, stranger.ID, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	require.NoError(t, ticketDAO.Validate(context.Background(), ticket.ID, owner.ID, time.Now()))

	reloaded, err := ticketDAO.FindByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.TicketValidated), reloaded.Status)
	assert.NotNil(t, reloaded.ValidatedAt)

	// A ticket is validated at most once.
	err = ticketDAO.Validate(context.Background(), ticket.ID, owner.ID, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestTicketDAO_CancelAndRelease(t *testing.T) {
	gormDB := requireDB(t)
	ticketDAO := dao.NewTicketDAO(gormDB)
	eventDAO := dao.NewEventDAO(gormDB)

	owner := createUser(t, gormDB)
	event := createEvent(t, gormDB, 5, 50)
	ticket := createTicket(t, gormDB, event.ID, owner.ID)

	require.NoError(t, ticketDAO.CancelAndRelease(context.Background(), ticket.ID, owner.ID, event.ID))

	reloaded, err := ticketDAO.FindByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.TicketCancelled), reloaded.Status)

	// The seat went back to the event.
	reloadedEvent, err := eventDAO.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloadedEvent.AvailableTickets)

	err = ticketDAO.CancelAndRelease(context.Background(), ticket.ID, owner.ID, event.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestPoolTicketDAO_Flow(t *testing.T) {
	gormDB := requireDB(t)
	poolDAO := dao.NewPoolTicketDAO(gormDB)
	ticketDAO := dao.NewTicketDAO(gormDB)

	owner := createUser(t, gormDB)
	nominee := createUser(t, gormDB)
	event := createEvent(t, gormDB, 5, 50)
	ticket := createTicket(t, gormDB, event.ID, owner.ID)

	now := time.Now().Truncate(time.Second)

	poolTicket, err := poolDAO.AddToPool(context.Background(), dao.PoolTicket{
		TicketID: ticket.ID,
		EventID:  event.ID,
		Status:   string(domain.PoolAvailable),
		AddedAt:  now,
	})
	require.NoError(t, err)

	// The pooled flag blocks a second envelope for the same ticket.
	_, err = poolDAO.AddToPool(context.Background(), dao.PoolTicket{
		TicketID: ticket.ID,
		EventID:  event.ID,
		Status:   string(domain.PoolAvailable),
		AddedAt:  now,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyPooled)

	require.NoError(t, poolDAO.Nominate(context.Background(), poolTicket.ID, nominee.ID, now.Add(domain.NominationWindow)))

	err = poolDAO.Nominate(context.Background(), poolTicket.ID, nominee.ID, now.Add(domain.NominationWindow))
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	require.NoError(t, poolDAO.Claim(context.Background(), poolTicket.ID, ticket.ID, nominee.ID, now))

	reloaded, err := ticketDAO.FindByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, nominee.ID, reloaded.OwnerID)
	assert.False(t, reloaded.IsPooled)

	// A claim is an ownership move, not a resale.
	assert.Equal(t, string(domain.TicketAvailable), reloaded.Status)
	assert.Equal(t, 0, reloaded.TransferCount)

	err = poolDAO.Claim(context.Background(), poolTicket.ID, ticket.ID, nominee.ID, now)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestPoolTicketDAO_ExpireLapsed(t *testing.T) {
	gormDB := requireDB(t)
	poolDAO := dao.NewPoolTicketDAO(gormDB)

	owner := createUser(t, gormDB)
	nominee := createUser(t, gormDB)
	event := createEvent(t, gormDB, 5, 50)

	now := time.Now().Truncate(time.Second)

	for i := 0; i < 2; i++ {
		ticket := createTicket(t, gormDB, event.ID, owner.ID)
		poolTicket, err := poolDAO.AddToPool(context.Background(), dao.PoolTicket{
			TicketID: ticket.ID,
			EventID:  event.ID,
			Status:   string(domain.PoolAvailable),
			AddedAt:  now,
		})
		require.NoError(t, err)

		if i == 0 {
			require.NoError(t, poolDAO.Nominate(context.Background(), poolTicket.ID, nominee.ID, now.Add(-time.Minute)))
		}
	}

	expired, err := poolDAO.ExpireLapsed(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	available, err := poolDAO.FindByEventIDAndStatus(context.Background(), event.ID, string(domain.PoolAvailable))
	require.NoError(t, err)
	assert.Len(t, available, 1)
}

func TestTicketTransferDAO_CompleteGuards(t *testing.T) {
	gormDB := requireDB(t)
	transferDAO := dao.NewTicketTransferDAO(gormDB)
	ticketDAO := dao.NewTicketDAO(gormDB)

	sender := createUser(t, gormDB)
	recipient := createUser(t, gormDB)
	event := createEvent(t, gormDB, 5, 50)
	ticket := createTicket(t, gormDB, event.ID, sender.ID)

	now := time.Now().Truncate(time.Second)

	transfer, err := transferDAO.Insert(context.Background(), dao.TicketTransfer{
		TicketID:     ticket.ID,
		FromUserID:   sender.ID,
		ToUserID:     recipient.ID,
		TransferType: string(domain.TransferTrustedCircle),
		Status:       string(domain.TransferPending),
		RequestedAt:  now,
	})
	require.NoError(t, err)

	// Completion requires a prior approval.
	err = transferDAO.Complete(context.Background(), transfer, sender.Email, now)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	require.NoError(t, transferDAO.Approve(context.Background(), transfer.ID, now))

	err = transferDAO.Approve(context.Background(), transfer.ID, now)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	require.NoError(t, transferDAO.Complete(context.Background(), transfer, sender.Email, now))

	reloaded, err := ticketDAO.FindByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, recipient.ID, reloaded.OwnerID)
	assert.Equal(t, string(domain.TicketTransferred), reloaded.Status)
	assert.Equal(t, 1, reloaded.TransferCount)
	assert.Equal(t, sender.Email, reloaded.TransferredFrom)

	err = transferDAO.Complete(context.Background(), transfer, sender.Email, now)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestTicketTransferDAO_Complete_StaleOwner(t *testing.T) {
	gormDB := requireDB(t)
	transferDAO := dao.NewTicketTransferDAO(gormDB)
	ticketDAO := dao.NewTicketDAO(gormDB)

	sender := createUser(t, gormDB)
	recipient := createUser(t, gormDB)
	thief := createUser(t, gormDB)
	event := createEvent(t, gormDB, 5, 50)
	ticket := createTicket(t, gormDB, event.ID, thief.ID)

	now := time.Now().Truncate(time.Second)

	// The transfer claims a sender who no longer owns the ticket. The
	// owner predicate rejects it even though the transfer is approved.
	transfer, err := transferDAO.Insert(context.Background(), dao.TicketTransfer{
		TicketID:     ticket.ID,
		FromUserID:   sender.ID,
		ToUserID:     recipient.ID,
		TransferType: string(domain.TransferControlled),
		Status:       string(domain.TransferApproved),
		RequestedAt:  now,
	})
	require.NoError(t, err)

	err = transferDAO.Complete(context.Background(), transfer, sender.Email, now)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	reloaded, err := ticketDAO.FindByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, thief.ID, reloaded.OwnerID)
}

func TestTicketTransferDAO_Reject(t *testing.T) {
	gormDB := requireDB(t)
	transferDAO := dao.NewTicketTransferDAO(gormDB)

	sender := createUser(t, gormDB)
	recipient := createUser(t, gormDB)
	event := createEvent(t, gormDB, 5, 50)
	ticket := createTicket(t, gormDB, event.ID, sender.ID)

	transfer, err := transferDAO.Insert(context.Background(), dao.TicketTransfer{
		TicketID:     ticket.ID,
		FromUserID:   sender.ID,
		ToUserID:     recipient.ID,
		TransferType: string(domain.TransferControlled),
		Status:       string(domain.TransferPending),
		RequestedAt:  time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, transferDAO.Reject(context.Background(), transfer.ID))

	reloaded, err := transferDAO.FindByID(context.Background(), transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.TransferRejected), reloaded.Status)

	err = transferDAO.Reject(context.Background(), 999999)
	assert.ErrorIs(t, err, domain.ErrTransferNotFound)
}

func TestUserDAO_DuplicateEmail(t *testing.T) {
	gormDB := requireDB(t)
	userDAO := dao.NewUserDAO(gormDB)

	user := createUser(t, gormDB)

	_, err := userDAO.Insert(context.Background(), dao.User{
		Email:    user.Email,
		Password: "hashed",
		Status:   string(domain.UserActive),
	})
	assert.ErrorIs(t, err, domain.ErrUserEmailExists)
}

func TestTrustedCircleDAO_UniquePair(t *testing.T) {
	gormDB := requireDB(t)
	trustedDAO := dao.NewTrustedCircleDAO(gormDB)

	alice := createUser(t, gormDB)
	bob := createUser(t, gormDB)

	_, err := trustedDAO.Insert(context.Background(), dao.TrustedCircle{
		UserID:        alice.ID,
		TrustedUserID: bob.ID,
		Relationship:  "friend",
	})
	require.NoError(t, err)

	_, err = trustedDAO.Insert(context.Background(), dao.TrustedCircle{
		UserID:        alice.ID,
		TrustedUserID: bob.ID,
		Relationship:  "friend again",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyTrusted)

	// Trust is directional; the reverse pair is a distinct row.
	_, err = trustedDAO.Insert(context.Background(), dao.TrustedCircle{
		UserID:        bob.ID,
		TrustedUserID: alice.ID,
		Relationship:  "friend",
	})
	require.NoError(t, err)

	exists, err := trustedDAO.Exists(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, trustedDAO.Delete(context.Background(), alice.ID, bob.ID))

	err = trustedDAO.Delete(context.Background(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrTrustedUserNotFound)
}

func TestPaymentDAO_UpdateStatus(t *testing.T) {
	gormDB := requireDB(t)
	paymentDAO := dao.NewPaymentDAO(gormDB)

	user := createUser(t, gormDB)
	now := time.Now().Truncate(time.Second)

	payment, err := paymentDAO.Insert(context.Background(), dao.Payment{
		UserID:               user.ID,
		Amount:               100,
		Status:               string(domain.PaymentPending),
		GatewayTransactionID: fmt.Sprintf("gw-%v", seq.Add(1)),
	})
	require.NoError(t, err)

	err = paymentDAO.UpdateStatus(context.Background(), payment.ID, string(domain.PaymentPending), map[string]interface{}{
		"status":       string(domain.PaymentCompleted),
		"completed_at": now,
	})
	require.NoError(t, err)

	// Settlement applies once; the state predicate rejects a replay.
	err = paymentDAO.UpdateStatus(context.Background(), payment.ID, string(domain.PaymentPending), map[string]interface{}{
		"status": string(domain.PaymentCompleted),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	reloaded, err := paymentDAO.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentCompleted), reloaded.Status)
	assert.NotNil(t, reloaded.CompletedAt)
}
