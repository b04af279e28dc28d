package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type AuditLog struct {
	ID uint `gorm:"primaryKey"`

	UserID uint `gorm:"index"`

	Action     string `gorm:"not null;index"`
	EntityType string `gorm:"not null"`
	EntityID   uint
	Details    string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;index"`
}

type AuditLogDAO struct {
	db *gorm.DB
}

func NewAuditLogDAO(db *gorm.DB) *AuditLogDAO {
	return &AuditLogDAO{
		db: db,
	}
}

func (d *AuditLogDAO) Insert(ctx context.Context, log AuditLog) (AuditLog, error) {
	result := d.db.WithContext(ctx).Create(&log)
	if result.Error != nil {
		return AuditLog{}, result.Error
	}

	return log, nil
}

func (d *AuditLogDAO) FindByUserID(ctx context.Context, userID uint) ([]AuditLog, error) {
	var logs []AuditLog

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&logs)
	if result.Error != nil {
		return nil, result.Error
	}

	return logs, nil
}
