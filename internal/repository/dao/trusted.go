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

type TrustedCircle struct {
	ID uint `gorm:"primaryKey"`

	UserID uint `gorm:"not null;uniqueIndex:idx_trusted_pair"`
	User   User `gorm:"foreignKey:UserID"`

	TrustedUserID uint `gorm:"not null;uniqueIndex:idx_trusted_pair"`
	TrustedUser   User `gorm:"foreignKey:TrustedUserID"`

	Relationship string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type TrustedCircleDAO struct {
	db *gorm.DB
}

func NewTrustedCircleDAO(db *gorm.DB) *TrustedCircleDAO {
	return &TrustedCircleDAO{
		db: db,
	}
}

func (d *TrustedCircleDAO) Insert(ctx context.Context, circle TrustedCircle) (TrustedCircle, error) {
	result := d.db.WithContext(ctx).Create(&circle)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return TrustedCircle{}, domain.ErrAlreadyTrusted
		}

		return TrustedCircle{}, result.Error
	}

	return circle, nil
}

func (d *TrustedCircleDAO) Exists(ctx context.Context, userID, trustedUserID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&TrustedCircle{}).
		Where("user_id = ? AND trusted_user_id = ?", userID, trustedUserID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *TrustedCircleDAO) FindByUserID(ctx context.Context, userID uint) ([]TrustedCircle, error) {
	var circles []TrustedCircle

	result := d.db.WithContext(ctx).Where("user_id = ?", userID).Find(&circles)
	if result.Error != nil {
		return nil, result.Error
	}

	return circles, nil
}

func (d *TrustedCircleDAO) Delete(ctx context.Context, userID, trustedUserID uint) error {
	result := d.db.WithContext(ctx).
		Where("user_id = ? AND trusted_user_id = ?", userID, trustedUserID).
		Delete(&TrustedCircle{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTrustedUserNotFound
	}

	return nil
}
