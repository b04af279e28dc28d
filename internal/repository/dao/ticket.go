package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/antiscalping/tickets/internal/domain"
)

var ErrTicketNumberExists = errors.New("ticket number already exists")

type Ticket struct {
	ID uint `gorm:"primaryKey"`

	EventID uint  `gorm:"not null;index"`
	Event   Event `gorm:"foreignKey:EventID"`

	OwnerID uint `gorm:"not null;index"`
	Owner   User `gorm:"foreignKey:OwnerID"`

	Status       string `gorm:"not null;index"`
	TicketNumber string `gorm:"uniqueIndex;not null"`
	QRSeed       string `gorm:"not null;index"`

	TransferCount int  `gorm:"not null;default:0"`
	IsPooled      bool `gorm:"not null;default:false"`

	PurchasedAt     time.Time
	TransferredAt   *time.Time
	TransferredFrom string
	ValidatedAt     *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

// CreateForPurchase reserves capacity and mints the tickets in one
// transaction. If the reservation fails no tickets are created.
func (d *TicketDAO) CreateForPurchase(ctx context.Context, eventID uint, tickets []Ticket) ([]Ticket, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := reserveTickets(tx, eventID, len(tickets)); err != nil {
			return err
		}

		if err := tx.Create(&tickets).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrTicketNumberExists
			}
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return tickets, nil
}

func (d *TicketDAO) FindByID(ctx context.Context, id uint) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).First(&ticket, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, domain.ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

func (d *TicketDAO) FindByOwnerID(ctx context.Context, ownerID uint) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *TicketDAO) FindByTicketNumber(ctx context.Context, number string) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).Where("ticket_number = ?", number).First(&ticket)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, domain.ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

func (d *TicketDAO) CountByOwnerID(ctx context.Context, ownerID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("owner_id = ?", ownerID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// Validate flips the ticket to VALIDATED. The predicate pins both owner and
// status so a concurrent pool claim (which changes the owner but not the
// status) cannot slip through.
func (d *TicketDAO) Validate(ctx context.Context, ticketID, ownerID uint, validatedAt time.Time) error {
	result := d.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("id = ? AND owner_id = ? AND status = ?", ticketID, ownerID, string(domain.TicketAvailable)).
		Updates(map[string]interface{}{
			"status":       string(domain.TicketValidated),
			"validated_at": validatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidState
	}

	return nil
}

// CancelAndRelease cancels the ticket and returns one unit of capacity to
// the event, atomically. No window exists where the ticket is CANCELLED but
// the seat not yet released.
func (d *TicketDAO) CancelAndRelease(ctx context.Context, ticketID, ownerID, eventID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Ticket{}).
			Where("id = ? AND owner_id = ? AND status = ?", ticketID, ownerID, string(domain.TicketAvailable)).
			Update("status", string(domain.TicketCancelled))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrInvalidState
		}

		return releaseTickets(tx, eventID, 1)
	})
}
