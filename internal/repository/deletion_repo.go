package repository

import (
	"ridgeworks/internal/domain"
	"ridgeworks/internal/models"

	"gorm.io/gorm"
)

type DeletionRequestRepository struct {
	db *gorm.DB
}

func NewDeletionRequestRepository(db *gorm.DB) *DeletionRequestRepository {
	return &DeletionRequestRepository{db: db}
}

func (r *DeletionRequestRepository) Create(req *models.ContractDeletionRequest) error {
	return r.db.Create(req).Error
}

func (r *DeletionRequestRepository) GetByID(id uint) (*models.ContractDeletionRequest, error) {
	var req models.ContractDeletionRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *DeletionRequestRepository) Save(req *models.ContractDeletionRequest) error {
	return r.db.Save(req).Error
}

// HasPendingForContract reports whether an unreviewed request already exists,
// so an affiliate cannot stack duplicates.
func (r *DeletionRequestRepository) HasPendingForContract(contractID uint) (bool, error) {
	var n int64
	err := r.db.Model(&models.ContractDeletionRequest{}).
		Where("contract_id = ? AND status = ?", contractID, domain.DeletionPending).
		Count(&n).Error
	return n > 0, err
}

func (r *DeletionRequestRepository) ListPending(limit, offset int) ([]models.ContractDeletionRequest, error) {
	var list []models.ContractDeletionRequest
	err := r.db.Where("status = ?", domain.DeletionPending).
		Preload("Contract").Preload("Affiliate").
		Order("created_at ASC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *DeletionRequestRepository) ListByAffiliateID(affiliateID uint, limit, offset int) ([]models.ContractDeletionRequest, error) {
	var list []models.ContractDeletionRequest
	err := r.db.Where("affiliate_id = ?", affiliateID).
		Preload("Contract").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
