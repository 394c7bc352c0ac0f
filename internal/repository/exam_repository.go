package repository

import (
	"jamb_cbt_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) CreateTemplate(template *model.ExamTemplate) error {
	return r.DB.Create(template).Error
}

func (r *ExamRepository) FindTemplateByID(id string) (*model.ExamTemplate, error) {
	var template model.ExamTemplate
	err := r.DB.Preload("Sections", func(db *gorm.DB) *gorm.DB {
		return db.Order("exam_sections.section_order asc")
	}).First(&template, "id = ?", id).Error
	return &template, err
}

// UpdateTemplate replaces the template row and its full section set in one
// transaction.
func (r *ExamRepository) UpdateTemplate(template *model.ExamTemplate) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Sections").Save(template).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", template.ID).Delete(&model.ExamSection{}).Error; err != nil {
			return err
		}
		for i := range template.Sections {
			template.Sections[i].ID = ""
			template.Sections[i].TemplateID = template.ID
			if err := tx.Create(&template.Sections[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// TemplateInUse reports whether any instance is scheduled against the
// template. Instantiated templates are immutable so live attempts keep their
// section marking rules.
func (r *ExamRepository) TemplateInUse(templateID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ExamInstance{}).
		Where("template_id = ?", templateID).
		Count(&count).Error
	return count > 0, err
}

func (r *ExamRepository) DeleteTemplate(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&model.ExamSection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ExamTemplate{}, "id = ?", id).Error
	})
}

func (r *ExamRepository) ListTemplates(page, limit int) ([]model.ExamTemplate, int64, error) {
	var total int64
	if err := r.DB.Model(&model.ExamTemplate{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var templates []model.ExamTemplate
	err := r.DB.Preload("Sections", func(db *gorm.DB) *gorm.DB {
		return db.Order("exam_sections.section_order asc")
	}).Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&templates).Error
	return templates, total, err
}

func (r *ExamRepository) CreateInstance(instance *model.ExamInstance) error {
	return r.DB.Create(instance).Error
}

func (r *ExamRepository) FindInstanceByID(id string) (*model.ExamInstance, error) {
	var instance model.ExamInstance
	err := r.DB.First(&instance, "id = ?", id).Error
	return &instance, err
}

func (r *ExamRepository) UpdateInstance(instance *model.ExamInstance) error {
	return r.DB.Save(instance).Error
}

func (r *ExamRepository) DeleteInstance(id string) error {
	return r.DB.Delete(&model.ExamInstance{}, "id = ?", id).Error
}

func (r *ExamRepository) ListInstances(page, limit int, status model.ExamInstanceStatus) ([]model.ExamInstance, int64, error) {
	query := r.DB.Model(&model.ExamInstance{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var instances []model.ExamInstance
	err := query.Order("scheduled_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&instances).Error
	return instances, total, err
}
