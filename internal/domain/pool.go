package domain

import "time"

type PoolStatus string

const (
	PoolAvailable PoolStatus = "AVAILABLE"
	PoolNominated PoolStatus = "NOMINATED"
	PoolClaimed   PoolStatus = "CLAIMED"
	PoolExpired   PoolStatus = "EXPIRED"
)

// NominationWindow is how long a nominated user has to claim a pooled ticket.
const NominationWindow = 15 * time.Minute

// PoolTicket wraps exactly one ticket released into the pool. It becomes
// terminal (CLAIMED or EXPIRED) exactly once and is never reused for a
// different ticket.
type PoolTicket struct {
	ID                  uint       `json:"id"`
	TicketID            uint       `json:"ticket_id"`
	EventID             uint       `json:"event_id"`
	Status              PoolStatus `json:"status"`
	NominatedUserID     *uint      `json:"nominated_user_id,omitempty"`
	NominationExpiresAt *time.Time `json:"nomination_expires_at,omitempty"`
	AddedAt             time.Time  `json:"added_at"`
	ClaimedAt           *time.Time `json:"claimed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// NominationExpired reports whether the nomination window has lapsed at the
// given instant. Expiry is evaluated lazily; a stale NOMINATED entry is
// functionally dead regardless of whether a sweep has flipped it to EXPIRED.
func (p *PoolTicket) NominationExpired(now time.Time) bool {
	return p.NominationExpiresAt != nil && p.NominationExpiresAt.Before(now)
}
