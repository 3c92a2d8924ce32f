package repository

import (
	"context"

	"opsvault/internal/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Record(ctx context.Context, log *entity.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]entity.AuditLog, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Record(ctx context.Context, log *entity.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditLogRepository) ListRecent(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	if limit <= 0 {
		limit = 25
	}
	var logs []entity.AuditLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
