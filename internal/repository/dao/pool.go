package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/antiscalping/tickets/internal/domain"
)

type PoolTicket struct {
	ID uint `gorm:"primaryKey"`

	TicketID uint   `gorm:"not null;index"`
	Ticket   Ticket `gorm:"foreignKey:TicketID"`

	EventID uint  `gorm:"not null;index"`
	Event   Event `gorm:"foreignKey:EventID"`

	Status string `gorm:"not null;index"`

	NominatedUserID     *uint
	NominationExpiresAt *time.Time

	AddedAt   time.Time
	ClaimedAt *time.Time

	CreatedAt time.Time `gorm:"not null"`
}

type PoolTicketDAO struct {
	db *gorm.DB
}

func NewPoolTicketDAO(db *gorm.DB) *PoolTicketDAO {
	return &PoolTicketDAO{
		db: db,
	}
}

// AddToPool flags the ticket as pooled and creates the pool envelope in one
// transaction. The is_pooled predicate enforces at most one active envelope
// per ticket.
func (d *PoolTicketDAO) AddToPool(ctx context.Context, poolTicket PoolTicket) (PoolTicket, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Ticket{}).
			Where("id = ? AND is_pooled = ?", poolTicket.TicketID, false).
			Update("is_pooled", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrAlreadyPooled
		}

		return tx.Create(&poolTicket).Error
	})
	if err != nil {
		return PoolTicket{}, err
	}

	return poolTicket, nil
}

func (d *PoolTicketDAO) FindByID(ctx context.Context, id uint) (PoolTicket, error) {
	var poolTicket PoolTicket

	result := d.db.WithContext(ctx).First(&poolTicket, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PoolTicket{}, domain.ErrPoolTicketNotFound
		}

		return PoolTicket{}, result.Error
	}

	return poolTicket, nil
}

func (d *PoolTicketDAO) FindByEventID(ctx context.Context, eventID uint) ([]PoolTicket, error) {
	var poolTickets []PoolTicket

	result := d.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&poolTickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return poolTickets, nil
}

func (d *PoolTicketDAO) FindByEventIDAndStatus(ctx context.Context, eventID uint, status string) ([]PoolTicket, error) {
	var poolTickets []PoolTicket

	result := d.db.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, status).
		Find(&poolTickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return poolTickets, nil
}

// Nominate moves the envelope AVAILABLE -> NOMINATED. Losers of a
// concurrent nomination observe ErrInvalidState.
func (d *PoolTicketDAO) Nominate(ctx context.Context, poolTicketID, nominatedUserID uint, expiresAt time.Time) error {
	result := d.db.WithContext(ctx).
		Model(&PoolTicket{}).
		Where("id = ? AND status = ?", poolTicketID, string(domain.PoolAvailable)).
		Updates(map[string]interface{}{
			"status":                string(domain.PoolNominated),
			"nominated_user_id":     nominatedUserID,
			"nomination_expires_at": expiresAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidState
	}

	return nil
}

// Claim finalizes a nomination: the envelope moves NOMINATED -> CLAIMED and
// the wrapped ticket changes owner and leaves the pool, in one transaction.
// Two concurrent claims resolve to exactly one winner; the loser's status
// predicate matches zero rows.
func (d *PoolTicketDAO) Claim(ctx context.Context, poolTicketID, ticketID, newOwnerID uint, claimedAt time.Time) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&PoolTicket{}).
			Where("id = ? AND status = ?", poolTicketID, string(domain.PoolNominated)).
			Updates(map[string]interface{}{
				"status":     string(domain.PoolClaimed),
				"claimed_at": claimedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrInvalidState
		}

		// Ownership moves without touching the ticket status or the
		// transfer count; a pool claim is not a peer-to-peer transfer.
		result = tx.Model(&Ticket{}).
			Where("id = ? AND is_pooled = ?", ticketID, true).
			Updates(map[string]interface{}{
				"owner_id":  newOwnerID,
				"is_pooled": false,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrInvalidState
		}

		return nil
	})
}

// ExpireLapsed flips NOMINATED envelopes whose window has passed to EXPIRED.
// Housekeeping only; claim correctness never depends on it.
func (d *PoolTicketDAO) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	result := d.db.WithContext(ctx).
		Model(&PoolTicket{}).
		Where("status = ? AND nomination_expires_at < ?", string(domain.PoolNominated), now).
		Update("status", string(domain.PoolExpired))
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
