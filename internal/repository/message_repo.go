package repository

import (
	"time"

	"ridgeworks/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(m *models.Message) error {
	return r.db.Create(m).Error
}

func (r *MessageRepository) ListByContractID(contractID uint, limit, offset int) ([]models.Message, error) {
	var list []models.Message
	err := r.db.Where("contract_id = ?", contractID).
		Preload("Sender").
		Order("created_at ASC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// MarkReadForReader marks every message in the thread not sent by the reader
// as read.
func (r *MessageRepository) MarkReadForReader(contractID, readerID uint) error {
	now := time.Now()
	return r.db.Model(&models.Message{}).
		Where("contract_id = ? AND sender_id <> ? AND read_at IS NULL", contractID, readerID).
		Update("read_at", now).Error
}

func (r *MessageRepository) UnreadCount(contractID, readerID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Message{}).
		Where("contract_id = ? AND sender_id <> ? AND read_at IS NULL", contractID, readerID).
		Count(&n).Error
	return n, err
}
