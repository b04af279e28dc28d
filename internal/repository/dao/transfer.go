package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/antiscalping/tickets/internal/domain"
)

type TicketTransfer struct {
	ID uint `gorm:"primaryKey"`

	TicketID uint   `gorm:"not null;index"`
	Ticket   Ticket `gorm:"foreignKey:TicketID"`

	FromUserID uint `gorm:"not null;index"`
	FromUser   User `gorm:"foreignKey:FromUserID"`

	ToUserID uint `gorm:"not null;index"`
	ToUser   User `gorm:"foreignKey:ToUserID"`

	TransferType string `gorm:"not null"`
	Status       string `gorm:"not null;index"`

	TransferPrice *float64
	TransferNotes string

	RequestedAt time.Time
	ApprovedAt  *time.Time
	CompletedAt *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type TicketTransferDAO struct {
	db *gorm.DB
}

func NewTicketTransferDAO(db *gorm.DB) *TicketTransferDAO {
	return &TicketTransferDAO{
		db: db,
	}
}

func (d *TicketTransferDAO) Insert(ctx context.Context, transfer TicketTransfer) (TicketTransfer, error) {
	result := d.db.WithContext(ctx).Create(&transfer)
	if result.Error != nil {
		return TicketTransfer{}, result.Error
	}

	return transfer, nil
}

func (d *TicketTransferDAO) FindByID(ctx context.Context, id uint) (TicketTransfer, error) {
	var transfer TicketTransfer

	result := d.db.WithContext(ctx).First(&transfer, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return TicketTransfer{}, domain.ErrTransferNotFound
		}

		return TicketTransfer{}, result.Error
	}

	return transfer, nil
}

// Approve moves the transfer PENDING -> APPROVED.
func (d *TicketTransferDAO) Approve(ctx context.Context, transferID uint, approvedAt time.Time) error {
	result := d.db.WithContext(ctx).
		Model(&TicketTransfer{}).
		Where("id = ? AND status = ?", transferID, string(domain.TransferPending)).
		Updates(map[string]interface{}{
			"status":      string(domain.TransferApproved),
			"approved_at": approvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidState
	}

	return nil
}

// Complete finalizes an approved transfer: in one transaction the transfer
// moves APPROVED -> COMPLETED and the ticket changes owner, becomes
// TRANSFERRED and gains one transfer count. The ticket predicate pins the
// previous owner and requires the ticket outside the pool, so a concurrent
// pool claim and a transfer completion resolve to exactly one owner change.
func (d *TicketTransferDAO) Complete(ctx context.Context, transfer TicketTransfer, transferredFrom string, completedAt time.Time) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&TicketTransfer{}).
			Where("id = ? AND status = ?", transfer.ID, string(domain.TransferApproved)).
			Updates(map[string]interface{}{
				"status":       string(domain.TransferCompleted),
				"completed_at": completedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrInvalidState
		}

		result = tx.Model(&Ticket{}).
			Where("id = ? AND owner_id = ? AND is_pooled = ?", transfer.TicketID, transfer.FromUserID, false).
			Updates(map[string]interface{}{
				"owner_id":         transfer.ToUserID,
				"status":           string(domain.TicketTransferred),
				"transfer_count":   gorm.Expr("transfer_count + 1"),
				"transferred_at":   completedAt,
				"transferred_from": transferredFrom,
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

// Reject marks the transfer REJECTED from any pre- or post-approval state.
// The reference workflow does not restrict rejection to PENDING.
func (d *TicketTransferDAO) Reject(ctx context.Context, transferID uint) error {
	result := d.db.WithContext(ctx).
		Model(&TicketTransfer{}).
		Where("id = ?", transferID).
		Update("status", string(domain.TransferRejected))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTransferNotFound
	}

	return nil
}
