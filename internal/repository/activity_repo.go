package repository

import (
	"ridgeworks/internal/models"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(a *models.ContractActivity) error {
	return r.db.Create(a).Error
}

func (r *ActivityRepository) ListByContractID(contractID uint, limit, offset int) ([]models.ContractActivity, error) {
	var list []models.ContractActivity
	err := r.db.Where("contract_id = ?", contractID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
