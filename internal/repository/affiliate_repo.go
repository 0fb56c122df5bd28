package repository

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"ridgeworks/internal/domain"
	"ridgeworks/internal/models"

	"gorm.io/gorm"
)

type AffiliateRepository struct {
	db *gorm.DB
}

func NewAffiliateRepository(db *gorm.DB) *AffiliateRepository {
	return &AffiliateRepository{db: db}
}

// generateReferralCode returns an 8-character hex code.
func generateReferralCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Create persists an affiliate, generating a unique referral code when none
// is set. Retries on code collision.
func (r *AffiliateRepository) Create(a *models.Affiliate) error {
	if a.ReferralCode != "" {
		return r.db.Create(a).Error
	}
	for i := 0; i < 10; i++ {
		code, err := generateReferralCode()
		if err != nil {
			return err
		}
		a.ReferralCode = code
		if err := r.db.Create(a).Error; err == nil {
			return nil
		}
		// Collision: retry with new code
	}
	return fmt.Errorf("failed to generate a unique referral code after retries")
}

func (r *AffiliateRepository) GetByID(id uint) (*models.Affiliate, error) {
	var a models.Affiliate
	if err := r.db.Preload("User").First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AffiliateRepository) GetByUserID(userID uint) (*models.Affiliate, error) {
	var a models.Affiliate
	if err := r.db.Where("user_id = ?", userID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AffiliateRepository) GetByReferralCode(code string) (*models.Affiliate, error) {
	var a models.Affiliate
	if err := r.db.Where("referral_code = ? AND is_active = ?", code, true).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AffiliateRepository) Update(a *models.Affiliate) error {
	return r.db.Save(a).Error
}

func (r *AffiliateRepository) List(limit, offset int) ([]models.Affiliate, int64, error) {
	var total int64
	if err := r.db.Model(&models.Affiliate{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Affiliate
	err := r.db.Preload("User").Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

// Stats recomputes an affiliate's aggregates from contracts and payouts.
// Nothing here is stored back; the derived numbers are authoritative.
func (r *AffiliateRepository) Stats(affiliateID uint) (*models.AffiliateStats, error) {
	var s models.AffiliateStats
	if err := r.db.Model(&models.Contract{}).
		Where("affiliate_id = ?", affiliateID).
		Count(&s.Referrals).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Contract{}).
		Where("affiliate_id = ? AND status = ?", affiliateID, domain.StatusActive).
		Count(&s.ActiveContracts).Error; err != nil {
		return nil, err
	}
	row := r.db.Model(&models.Contract{}).
		Where("affiliate_id = ? AND status IN ?", affiliateID, []string{domain.StatusActive, domain.StatusCompleted}).
		Select("COALESCE(SUM(affiliate_commission_amount), 0)").Row()
	if err := row.Scan(&s.TotalEarnings); err != nil {
		return nil, err
	}
	row = r.db.Model(&models.Payout{}).
		Where("affiliate_id = ? AND status = ?", affiliateID, domain.PayoutPaid).
		Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&s.PaidOut); err != nil {
		return nil, err
	}
	s.PendingEarnings = s.TotalEarnings - s.PaidOut
	return &s, nil
}
