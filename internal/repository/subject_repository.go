package repository

import (
	"jamb_cbt_backend/internal/model"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) Create(subject *model.Subject) error {
	return r.DB.Create(subject).Error
}

func (r *SubjectRepository) FindByID(id string) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.First(&subject, "id = ?", id).Error
	return &subject, err
}

func (r *SubjectRepository) FindByCode(code string) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.Where("code = ?", code).First(&subject).Error
	return &subject, err
}

func (r *SubjectRepository) ListAll() ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.Order("name asc").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) CreateTopic(topic *model.Topic) error {
	return r.DB.Create(topic).Error
}

func (r *SubjectRepository) FindTopicByID(id string) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.First(&topic, "id = ?", id).Error
	return &topic, err
}

func (r *SubjectRepository) ListTopics(subjectID string) ([]model.Topic, error) {
	var topics []model.Topic
	query := r.DB.Order("name asc")
	if subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}
	err := query.Find(&topics).Error
	return topics, err
}
