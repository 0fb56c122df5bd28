package repository

import (
	"time"

	"ridgeworks/internal/domain"
	"ridgeworks/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(t *models.PaymentTransaction) error {
	return r.db.Create(t).Error
}

// LatestPendingByContract returns the most recent pending transaction for a
// contract, the one a verification decision applies to.
func (r *PaymentRepository) LatestPendingByContract(contractID uint) (*models.PaymentTransaction, error) {
	var t models.PaymentTransaction
	err := r.db.Where("contract_id = ? AND status = ?", contractID, domain.TxStatusPending).
		Order("created_at DESC").First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Review marks a transaction verified or rejected with the reviewer's
// identity and notes.
func (r *PaymentRepository) Review(id, reviewerID uint, status, notes string) error {
	now := time.Now()
	return r.db.Model(&models.PaymentTransaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"reviewed_by_id": reviewerID,
			"reviewed_at":    now,
			"review_notes":   notes,
		}).Error
}

func (r *PaymentRepository) ListByContractID(contractID uint) ([]models.PaymentTransaction, error) {
	var list []models.PaymentTransaction
	err := r.db.Where("contract_id = ?", contractID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *PaymentRepository) ListPending(limit, offset int) ([]models.PaymentTransaction, error) {
	var list []models.PaymentTransaction
	err := r.db.Where("status = ?", domain.TxStatusPending).
		Preload("Contract").
		Order("created_at ASC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
