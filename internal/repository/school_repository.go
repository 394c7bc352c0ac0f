package repository

import (
	"jamb_cbt_backend/internal/model"

	"gorm.io/gorm"
)

type SchoolRepository struct {
	DB *gorm.DB
}

func NewSchoolRepository(db *gorm.DB) *SchoolRepository {
	return &SchoolRepository{DB: db}
}

func (r *SchoolRepository) Create(school *model.SchoolRecord) error {
	return r.DB.Create(school).Error
}

func (r *SchoolRepository) FindByID(id string) (*model.SchoolRecord, error) {
	var school model.SchoolRecord
	err := r.DB.First(&school, "id = ?", id).Error
	return &school, err
}

func (r *SchoolRepository) Update(school *model.SchoolRecord) error {
	return r.DB.Save(school).Error
}

func (r *SchoolRepository) Delete(id string) error {
	return r.DB.Delete(&model.SchoolRecord{}, "id = ?", id).Error
}

func (r *SchoolRepository) List(page, limit int, state string) ([]model.SchoolRecord, int64, error) {
	query := r.DB.Model(&model.SchoolRecord{})
	if state != "" {
		query = query.Where("state = ?", state)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var schools []model.SchoolRecord
	err := query.Order("name asc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&schools).Error
	return schools, total, err
}
