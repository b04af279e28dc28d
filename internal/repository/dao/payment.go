package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/antiscalping/tickets/internal/domain"
)

type Payment struct {
	ID uint `gorm:"primaryKey"`

	UserID uint `gorm:"not null;index"`
	User   User `gorm:"foreignKey:UserID"`

	Amount float64 `gorm:"not null"`
	Status string  `gorm:"not null;index"`

	GatewayTransactionID string `gorm:"not null"`
	Description          string
	FailureReason        string

	CompletedAt *time.Time

	CreatedAt time.Time `gorm:"not null"`
}

type PaymentDAO struct {
	db *gorm.DB
}

func NewPaymentDAO(db *gorm.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

func (d *PaymentDAO) Insert(ctx context.Context, payment Payment) (Payment, error) {
	result := d.db.WithContext(ctx).Create(&payment)
	if result.Error != nil {
		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByID(ctx context.Context, id uint) (Payment, error) {
	var payment Payment

	result := d.db.WithContext(ctx).First(&payment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, domain.ErrPaymentNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

// UpdateStatus moves a payment between states with a predicate on the
// current state so concurrent settlements cannot double-apply.
func (d *PaymentDAO) UpdateStatus(ctx context.Context, paymentID uint, fromStatus string, updates map[string]interface{}) error {
	result := d.db.WithContext(ctx).
		Model(&Payment{}).
		Where("id = ? AND status = ?", paymentID, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidState
	}

	return nil
}
