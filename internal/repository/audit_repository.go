package repository

import (
	"jamb_cbt_backend/internal/model"

	"gorm.io/gorm"
)

type AuditRepository struct {
	DB *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{DB: db}
}

func (r *AuditRepository) Create(entry *model.AuditLog) error {
	return r.DB.Create(entry).Error
}

type AuditFilter struct {
	UserID     string
	Action     string
	EntityType string
}

func (r *AuditRepository) List(filter AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	query := r.DB.Model(&model.AuditLog{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.AuditLog
	err := query.Order("timestamp desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&entries).Error
	return entries, total, err
}
