package repository

import (
	"ridgeworks/internal/models"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(p *models.Project) error {
	return r.db.Create(p).Error
}

func (r *ProjectRepository) GetByID(id uint) (*models.Project, error) {
	var p models.Project
	if err := r.db.Preload("Client").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Update(p *models.Project) error {
	return r.db.Save(p).Error
}

func (r *ProjectRepository) Delete(id uint) error {
	return r.db.Delete(&models.Project{}, id).Error
}

func (r *ProjectRepository) List(status string, limit, offset int) ([]models.Project, int64, error) {
	q := r.db.Model(&models.Project{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Project
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

// ListFeatured feeds the public portfolio page.
func (r *ProjectRepository) ListFeatured(limit int) ([]models.Project, error) {
	var list []models.Project
	err := r.db.Where("featured = ?", true).Order("updated_at DESC").Limit(limit).Find(&list).Error
	return list, err
}
