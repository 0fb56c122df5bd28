package repository

import (
	"ridgeworks/internal/models"

	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(c *models.Client) error {
	return r.db.Create(c).Error
}

func (r *ClientRepository) GetByID(id uint) (*models.Client, error) {
	var c models.Client
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) GetByUserID(userID uint) (*models.Client, error) {
	var c models.Client
	if err := r.db.Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) GetByEmail(email string) (*models.Client, error) {
	var c models.Client
	if err := r.db.Where("email = ?", email).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Update(c *models.Client) error {
	return r.db.Save(c).Error
}

func (r *ClientRepository) Delete(id uint) error {
	return r.db.Delete(&models.Client{}, id).Error
}

func (r *ClientRepository) List(search string, limit, offset int) ([]models.Client, int64, error) {
	q := r.db.Model(&models.Client{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR email LIKE ? OR company LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Client
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}
