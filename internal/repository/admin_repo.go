package repository

import (
	"ridgeworks/internal/domain"
	"ridgeworks/internal/models"

	"gorm.io/gorm"
)

type AdminRepository struct {
	db           *gorm.DB
	contractRepo *ContractRepository
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db, contractRepo: NewContractRepository(db)}
}

type DashboardStats struct {
	Contracts        map[string]int64 `json:"contracts"`
	Clients          int64            `json:"clients"`
	Affiliates       int64            `json:"affiliates"`
	PendingProofs    int64            `json:"pending_proofs"`
	PendingDeletions int64            `json:"pending_deletions"`
	ActiveRevenue    float64          `json:"active_revenue"`
	CommissionOwed   float64          `json:"commission_owed"`
}

// GetDashboardStats aggregates the admin overview numbers in one pass.
func (r *AdminRepository) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	byStatus, err := r.contractRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	stats.Contracts = byStatus

	if err := r.db.Model(&models.Client{}).Count(&stats.Clients).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Affiliate{}).Count(&stats.Affiliates).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.PaymentTransaction{}).
		Where("status = ?", domain.TxStatusPending).
		Count(&stats.PendingProofs).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.ContractDeletionRequest{}).
		Where("status = ?", domain.DeletionPending).
		Count(&stats.PendingDeletions).Error; err != nil {
		return nil, err
	}
	row := r.db.Model(&models.Contract{}).
		Where("status IN ?", []string{domain.StatusActive, domain.StatusCompleted}).
		Select("COALESCE(SUM(total_amount), 0)").Row()
	if err := row.Scan(&stats.ActiveRevenue); err != nil {
		return nil, err
	}
	row = r.db.Model(&models.Contract{}).
		Where("status IN ? AND affiliate_id IS NOT NULL", []string{domain.StatusActive, domain.StatusCompleted}).
		Select("COALESCE(SUM(affiliate_commission_amount), 0)").Row()
	if err := row.Scan(&stats.CommissionOwed); err != nil {
		return nil, err
	}
	return stats, nil
}
