package service

import (
	"context"
	"sync"
	"time"

	"github.com/antiscalping/tickets/internal/domain"
)

// The fakes mirror the guarded updates of the real data layer: state
// transitions check the expected previous state and fail with
// domain.ErrInvalidState when it no longer holds.

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uint]domain.Event
	nextID uint
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events: make(map[uint]domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event.ID = f.nextID
	f.nextID++
	f.events[event.ID] = event

	return event, nil
}

func (f *fakeEventRepo) FindByID(_ context.Context, id uint) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}

	return event, nil
}

func (f *fakeEventRepo) FindByStatus(_ context.Context, status domain.EventStatus) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Event
	for _, e := range f.events {
		if e.Status == status {
			result = append(result, e)
		}
	}

	return result, nil
}

func (f *fakeEventRepo) FindUpcoming(_ context.Context, after time.Time) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Event
	for _, e := range f.events {
		if e.Status == domain.EventActive && e.EventDate.After(after) {
			result = append(result, e)
		}
	}

	return result, nil
}

func (f *fakeEventRepo) FindByVenue(_ context.Context, venue string) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Event
	for _, e := range f.events {
		if e.Venue == venue {
			result = append(result, e)
		}
	}

	return result, nil
}

func (f *fakeEventRepo) UpdateStatus(_ context.Context, id uint, status domain.EventStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}

	event.Status = status
	f.events[id] = event

	return nil
}

func (f *fakeEventRepo) reserve(eventID uint, quantity int) error {
	event, ok := f.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}

	if event.AvailableTickets < quantity {
		return domain.ErrCapacityExceeded
	}

	event.AvailableTickets -= quantity
	f.events[eventID] = event

	return nil
}

func (f *fakeEventRepo) release(eventID uint, quantity int) {
	event, ok := f.events[eventID]
	if !ok {
		return
	}

	event.AvailableTickets += quantity
	if event.AvailableTickets > event.TotalCapacity {
		event.AvailableTickets = event.TotalCapacity
	}
	f.events[eventID] = event
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[uint]domain.Ticket
	nextID  uint
	events  *fakeEventRepo
}

func newFakeTicketRepo(events *fakeEventRepo) *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets: make(map[uint]domain.Ticket),
		nextID:  1,
		events:  events,
	}
}

func (f *fakeTicketRepo) put(ticket domain.Ticket) domain.Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ticket.ID == 0 {
		ticket.ID = f.nextID
		f.nextID++
	}
	f.tickets[ticket.ID] = ticket

	return ticket
}

func (f *fakeTicketRepo) CreateForPurchase(_ context.Context, eventID uint, tickets []domain.Ticket) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events.mu.Lock()
	defer f.events.mu.Unlock()

	if err := f.events.reserve(eventID, len(tickets)); err != nil {
		return nil, err
	}

	created := make([]domain.Ticket, len(tickets))
	for i, t := range tickets {
		t.ID = f.nextID
		f.nextID++
		f.tickets[t.ID] = t
		created[i] = t
	}

	return created, nil
}

func (f *fakeTicketRepo) FindByID(_ context.Context, id uint) (domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ticket, ok := f.tickets[id]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}

	return ticket, nil
}

func (f *fakeTicketRepo) FindByOwnerID(_ context.Context, ownerID uint) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Ticket
	for _, t := range f.tickets {
		if t.OwnerID == ownerID {
			result = append(result, t)
		}
	}

	return result, nil
}

func (f *fakeTicketRepo) FindByTicketNumber(_ context.Context, number string) (domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.tickets {
		if t.TicketNumber == number {
			return t, nil
		}
	}

	return domain.Ticket{}, domain.ErrTicketNotFound
}

func (f *fakeTicketRepo) CountByOwnerID(_ context.Context, ownerID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, t := range f.tickets {
		if t.OwnerID == ownerID {
			count++
		}
	}

	return count, nil
}

func (f *fakeTicketRepo) Validate(_ context.Context, ticketID, ownerID uint, validatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ticket, ok := f.tickets[ticketID]
	if !ok {
		return domain.ErrTicketNotFound
	}

	if ticket.OwnerID != ownerID || ticket.Status != domain.TicketAvailable {
		return domain.ErrInvalidState
	}

	ticket.Status = domain.TicketValidated
	ticket.ValidatedAt = &validatedAt
	f.tickets[ticketID] = ticket

	return nil
}

func (f *fakeTicketRepo) CancelAndRelease(_ context.Context, ticketID, ownerID, eventID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ticket, ok := f.tickets[ticketID]
	if !ok {
		return domain.ErrTicketNotFound
	}

	if ticket.OwnerID != ownerID || ticket.Status != domain.TicketAvailable {
		return domain.ErrInvalidState
	}

	ticket.Status = domain.TicketCancelled
	f.tickets[ticketID] = ticket

	f.events.mu.Lock()
	f.events.release(eventID, 1)
	f.events.mu.Unlock()

	return nil
}

type fakePoolRepo struct {
	mu          sync.Mutex
	poolTickets map[uint]domain.PoolTicket
	nextID      uint
	tickets     *fakeTicketRepo
}

func newFakePoolRepo(tickets *fakeTicketRepo) *fakePoolRepo {
	return &fakePoolRepo{
		poolTickets: make(map[uint]domain.PoolTicket),
		nextID:      1,
		tickets:     tickets,
	}
}

func (f *fakePoolRepo) Add(_ context.Context, poolTicket domain.PoolTicket) (domain.PoolTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets.mu.Lock()
	defer f.tickets.mu.Unlock()

	ticket, ok := f.tickets.tickets[poolTicket.TicketID]
	if !ok {
		return domain.PoolTicket{}, domain.ErrTicketNotFound
	}
	if ticket.IsPooled {
		return domain.PoolTicket{}, domain.ErrAlreadyPooled
	}

	ticket.IsPooled = true
	f.tickets.tickets[ticket.ID] = ticket

	poolTicket.ID = f.nextID
	f.nextID++
	f.poolTickets[poolTicket.ID] = poolTicket

	return poolTicket, nil
}

func (f *fakePoolRepo) FindByID(_ context.Context, id uint) (domain.PoolTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	poolTicket, ok := f.poolTickets[id]
	if !ok {
		return domain.PoolTicket{}, domain.ErrPoolTicketNotFound
	}

	return poolTicket, nil
}

func (f *fakePoolRepo) FindByEventID(_ context.Context, eventID uint) ([]domain.PoolTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.PoolTicket
	for _, p := range f.poolTickets {
		if p.EventID == eventID {
			result = append(result, p)
		}
	}

	return result, nil
}

func (f *fakePoolRepo) FindByEventIDAndStatus(_ context.Context, eventID uint, status domain.PoolStatus) ([]domain.PoolTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.PoolTicket
	for _, p := range f.poolTickets {
		if p.EventID == eventID && p.Status == status {
			result = append(result, p)
		}
	}

	return result, nil
}

func (f *fakePoolRepo) Nominate(_ context.Context, poolTicketID, nominatedUserID uint, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	poolTicket, ok := f.poolTickets[poolTicketID]
	if !ok {
		return domain.ErrPoolTicketNotFound
	}

	if poolTicket.Status != domain.PoolAvailable {
		return domain.ErrInvalidState
	}

	poolTicket.Status = domain.PoolNominated
	poolTicket.NominatedUserID = &nominatedUserID
	poolTicket.NominationExpiresAt = &expiresAt
	f.poolTickets[poolTicketID] = poolTicket

	return nil
}

func (f *fakePoolRepo) Claim(_ context.Context, poolTicketID, ticketID, newOwnerID uint, claimedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	poolTicket, ok := f.poolTickets[poolTicketID]
	if !ok {
		return domain.ErrPoolTicketNotFound
	}

	if poolTicket.Status != domain.PoolNominated {
		return domain.ErrInvalidState
	}

	f.tickets.mu.Lock()
	defer f.tickets.mu.Unlock()

	ticket, ok := f.tickets.tickets[ticketID]
	if !ok || !ticket.IsPooled {
		return domain.ErrInvalidState
	}

	poolTicket.Status = domain.PoolClaimed
	poolTicket.ClaimedAt = &claimedAt
	f.poolTickets[poolTicketID] = poolTicket

	ticket.OwnerID = newOwnerID
	ticket.IsPooled = false
	f.tickets.tickets[ticketID] = ticket

	return nil
}

func (f *fakePoolRepo) ExpireLapsed(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var expired int64
	for id, p := range f.poolTickets {
		if p.Status == domain.PoolNominated && p.NominationExpiresAt != nil && p.NominationExpiresAt.Before(now) {
			p.Status = domain.PoolExpired
			f.poolTickets[id] = p
			expired++
		}
	}

	return expired, nil
}

type fakeTransferRepo struct {
	mu        sync.Mutex
	transfers map[uint]domain.TicketTransfer
	nextID    uint
	tickets   *fakeTicketRepo
}

func newFakeTransferRepo(tickets *fakeTicketRepo) *fakeTransferRepo {
	return &fakeTransferRepo{
		transfers: make(map[uint]domain.TicketTransfer),
		nextID:    1,
		tickets:   tickets,
	}
}

func (f *fakeTransferRepo) Create(_ context.Context, transfer domain.TicketTransfer) (domain.TicketTransfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	transfer.ID = f.nextID
	f.nextID++
	f.transfers[transfer.ID] = transfer

	return transfer, nil
}

func (f *fakeTransferRepo) FindByID(_ context.Context, id uint) (domain.TicketTransfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	transfer, ok := f.transfers[id]
	if !ok {
		return domain.TicketTransfer{}, domain.ErrTransferNotFound
	}

	return transfer, nil
}

func (f *fakeTransferRepo) Approve(_ context.Context, transferID uint, approvedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	transfer, ok := f.transfers[transferID]
	if !ok {
		return domain.ErrTransferNotFound
	}

	if transfer.Status != domain.TransferPending {
		return domain.ErrInvalidState
	}

	transfer.Status = domain.TransferApproved
	transfer.ApprovedAt = &approvedAt
	f.transfers[transferID] = transfer

	return nil
}

func (f *fakeTransferRepo) Complete(_ context.Context, transfer domain.TicketTransfer, transferredFrom string, completedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.transfers[transfer.ID]
	if !ok {
		return domain.ErrTransferNotFound
	}

	if stored.Status != domain.TransferApproved {
		return domain.ErrInvalidState
	}

	f.tickets.mu.Lock()
	defer f.tickets.mu.Unlock()

	ticket, ok := f.tickets.tickets[transfer.TicketID]
	if !ok || ticket.OwnerID != transfer.FromUserID || ticket.IsPooled {
		return domain.ErrInvalidState
	}

	stored.Status = domain.TransferCompleted
	stored.CompletedAt = &completedAt
	f.transfers[transfer.ID] = stored

	ticket.OwnerID = transfer.ToUserID
	ticket.Status = domain.TicketTransferred
	ticket.TransferCount++
	ticket.TransferredAt = &completedAt
	ticket.TransferredFrom = transferredFrom
	f.tickets.tickets[ticket.ID] = ticket

	return nil
}

func (f *fakeTransferRepo) Reject(_ context.Context, transferID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	transfer, ok := f.transfers[transferID]
	if !ok {
		return domain.ErrTransferNotFound
	}

	transfer.Status = domain.TransferRejected
	f.transfers[transferID] = transfer

	return nil
}

func (f *fakeTransferRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.transfers)
}

type fakeTrustedRepo struct {
	mu     sync.Mutex
	pairs  map[[2]uint]domain.TrustedCircle
	nextID uint
}

func newFakeTrustedRepo() *fakeTrustedRepo {
	return &fakeTrustedRepo{
		pairs:  make(map[[2]uint]domain.TrustedCircle),
		nextID: 1,
	}
}

func (f *fakeTrustedRepo) Create(_ context.Context, circle domain.TrustedCircle) (domain.TrustedCircle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := [2]uint{circle.UserID, circle.TrustedUserID}
	if _, exists := f.pairs[key]; exists {
		return domain.TrustedCircle{}, domain.ErrAlreadyTrusted
	}

	circle.ID = f.nextID
	f.nextID++
	f.pairs[key] = circle

	return circle, nil
}

func (f *fakeTrustedRepo) Exists(_ context.Context, userID, trustedUserID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, exists := f.pairs[[2]uint{userID, trustedUserID}]

	return exists, nil
}

func (f *fakeTrustedRepo) FindByUserID(_ context.Context, userID uint) ([]domain.TrustedCircle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.TrustedCircle
	for key, c := range f.pairs {
		if key[0] == userID {
			result = append(result, c)
		}
	}

	return result, nil
}

func (f *fakeTrustedRepo) Delete(_ context.Context, userID, trustedUserID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := [2]uint{userID, trustedUserID}
	if _, exists := f.pairs[key]; !exists {
		return domain.ErrTrustedUserNotFound
	}

	delete(f.pairs, key)

	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	f := &fakeUserRepo{
		users:  make(map[uint]domain.User),
		nextID: 1,
	}
	for _, u := range users {
		if u.ID >= f.nextID {
			f.nextID = u.ID + 1
		}
		f.users[u.ID] = u
	}

	return f
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return domain.User{}, domain.ErrUserEmailExists
		}
	}

	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user

	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}

	return domain.User{}, domain.ErrUserNotFound
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uint]domain.Payment
	nextID   uint
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		payments: make(map[uint]domain.Payment),
		nextID:   1,
	}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment domain.Payment) (domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	payment.ID = f.nextID
	f.nextID++
	f.payments[payment.ID] = payment

	return payment, nil
}

func (f *fakePaymentRepo) FindByID(_ context.Context, id uint) (domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	payment, ok := f.payments[id]
	if !ok {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}

	return payment, nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, paymentID uint, from domain.PaymentStatus, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	payment, ok := f.payments[paymentID]
	if !ok {
		return domain.ErrPaymentNotFound
	}

	if payment.Status != from {
		return domain.ErrInvalidState
	}

	if status, ok := updates["status"].(string); ok {
		payment.Status = domain.PaymentStatus(status)
	}
	if completedAt, ok := updates["completed_at"].(time.Time); ok {
		payment.CompletedAt = &completedAt
	}
	if reason, ok := updates["failure_reason"].(string); ok {
		payment.FailureReason = reason
	}
	f.payments[paymentID] = payment

	return nil
}

type fakeAuditRepo struct {
	mu     sync.Mutex
	logs   []domain.AuditLog
	nextID uint
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{nextID: 1}
}

func (f *fakeAuditRepo) Create(_ context.Context, log domain.AuditLog) (domain.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	log.ID = f.nextID
	f.nextID++
	f.logs = append(f.logs, log)

	return log, nil
}

func (f *fakeAuditRepo) FindByUserID(_ context.Context, userID uint) ([]domain.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.AuditLog
	for _, l := range f.logs {
		if l.UserID == userID {
			result = append(result, l)
		}
	}

	return result, nil
}
