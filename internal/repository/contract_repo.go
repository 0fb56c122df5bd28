package repository

import (
	"fmt"
	"time"

	"ridgeworks/internal/domain"
	"ridgeworks/internal/models"

	"gorm.io/gorm"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(c *models.Contract) error {
	return r.db.Create(c).Error
}

func (r *ContractRepository) GetByID(id uint) (*models.Contract, error) {
	var c models.Contract
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByIDFull loads a contract with its parties for detail views.
func (r *ContractRepository) GetByIDFull(id uint) (*models.Contract, error) {
	var c models.Contract
	err := r.db.Preload("Client").Preload("Affiliate").Preload("Project").First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByLinkToken resolves the unauthenticated public view by capability
// token.
func (r *ContractRepository) GetByLinkToken(token string) (*models.Contract, error) {
	var c models.Contract
	err := r.db.Preload("Client").Where("contract_link_token = ?", token).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContractRepository) Save(c *models.Contract) error {
	return r.db.Save(c).Error
}

func (r *ContractRepository) Delete(id uint) error {
	return r.db.Delete(&models.Contract{}, id).Error
}

// NextContractNumber generates the next human-readable number for the given
// year, e.g. RW-2025-0001. Last-write-wins on concurrent creates, matching
// the rest of the store's concurrency model; the unique index catches the
// rare collision.
func (r *ContractRepository) NextContractNumber(now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", domain.ContractNumberPrefix, now.Year())
	var count int64
	if err := r.db.Model(&models.Contract{}).Unscoped().
		Where("contract_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func (r *ContractRepository) ListAll(status string, limit, offset int) ([]models.Contract, int64, error) {
	return r.list(r.db.Model(&models.Contract{}), status, limit, offset)
}

func (r *ContractRepository) ListByClientID(clientID uint, status string, limit, offset int) ([]models.Contract, int64, error) {
	return r.list(r.db.Model(&models.Contract{}).Where("client_id = ?", clientID), status, limit, offset)
}

func (r *ContractRepository) ListByAffiliateID(affiliateID uint, status string, limit, offset int) ([]models.Contract, int64, error) {
	return r.list(r.db.Model(&models.Contract{}).Where("affiliate_id = ?", affiliateID), status, limit, offset)
}

func (r *ContractRepository) list(q *gorm.DB, status string, limit, offset int) ([]models.Contract, int64, error) {
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Contract
	err := q.Preload("Client").Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

// ListAwaitingSignature returns contracts stuck in the signature phase longer
// than the cutoff, for the reminder job.
func (r *ContractRepository) ListAwaitingSignature(before time.Time) ([]models.Contract, error) {
	var list []models.Contract
	err := r.db.Where("status = ? AND updated_at < ?", domain.StatusPendingSignature, before).Find(&list).Error
	return list, err
}

// CountByStatus returns contract counts grouped by status for the admin
// dashboard.
func (r *ContractRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.db.Model(&models.Contract{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, rw := range rows {
		out[rw.Status] = rw.N
	}
	return out, nil
}
