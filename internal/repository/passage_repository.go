package repository

import (
	"jamb_cbt_backend/internal/model"

	"gorm.io/gorm"
)

type PassageRepository struct {
	DB *gorm.DB
}

func NewPassageRepository(db *gorm.DB) *PassageRepository {
	return &PassageRepository{DB: db}
}

func (r *PassageRepository) Create(passage *model.Passage) error {
	return r.DB.Create(passage).Error
}

func (r *PassageRepository) FindByID(id string) (*model.Passage, error) {
	var passage model.Passage
	err := r.DB.First(&passage, "id = ?", id).Error
	return &passage, err
}

func (r *PassageRepository) FindByIDs(ids []string) ([]model.Passage, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var passages []model.Passage
	err := r.DB.Where("id IN ?", ids).Find(&passages).Error
	return passages, err
}

func (r *PassageRepository) Update(passage *model.Passage) error {
	return r.DB.Save(passage).Error
}

// Delete detaches referencing questions before removing the row; the
// questions survive without their passage.
func (r *PassageRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Question{}).
			Where("passage_id = ?", id).
			Update("passage_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Passage{}, "id = ?", id).Error
	})
}

func (r *PassageRepository) List(subjectID string, page, limit int) ([]model.Passage, int64, error) {
	query := r.DB.Model(&model.Passage{})
	if subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var passages []model.Passage
	err := query.Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&passages).Error
	return passages, total, err
}
