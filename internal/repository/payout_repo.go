package repository

import (
	"time"

	"ridgeworks/internal/domain"
	"ridgeworks/internal/models"

	"gorm.io/gorm"
)

type PayoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) Create(p *models.Payout) error {
	return r.db.Create(p).Error
}

func (r *PayoutRepository) ListByAffiliateID(affiliateID uint, limit, offset int) ([]models.Payout, error) {
	var list []models.Payout
	err := r.db.Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// MarkPaid settles a pending payout with a payment reference.
func (r *PayoutRepository) MarkPaid(id uint, reference string) error {
	now := time.Now()
	return r.db.Model(&models.Payout{}).
		Where("id = ? AND status = ?", id, domain.PayoutPending).
		Updates(map[string]interface{}{
			"status":    domain.PayoutPaid,
			"paid_at":   now,
			"reference": reference,
		}).Error
}
