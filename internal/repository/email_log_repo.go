package repository

import (
	"ridgeworks/internal/models"

	"gorm.io/gorm"
)

type EmailLogRepository struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

func (r *EmailLogRepository) Create(l *models.EmailLog) error {
	return r.db.Create(l).Error
}

func (r *EmailLogRepository) List(status string, limit, offset int) ([]models.EmailLog, error) {
	q := r.db.Model(&models.EmailLog{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.EmailLog
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
