package repository

import (
	"jamb_cbt_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, "id = ?", id).Error
	return &question, err
}

func (r *QuestionRepository) FindByIDs(ids []string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

// MarkDeleted soft-deletes by status so the question stays readable for
// attempts that already reference it.
func (r *QuestionRepository) MarkDeleted(id string) error {
	return r.DB.Model(&model.Question{}).
		Where("id = ?", id).
		Update("status", model.QuestionDeleted).
		Error
}

// FindActiveBySubject returns the eligible selection pool for one section.
func (r *QuestionRepository) FindActiveBySubject(subjectID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("subject_id = ? AND status = ?", subjectID, model.QuestionActive).
		Find(&questions).Error
	return questions, err
}

// ReferencedByAttempt reports whether any attempt's frozen question list
// contains the question. Referenced questions are immutable so that scoring
// stays reproducible.
func (r *QuestionRepository) ReferencedByAttempt(questionID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ExamAttempt{}).
		Where("JSON_CONTAINS(questions, JSON_OBJECT('questionId', ?))", questionID).
		Count(&count).Error
	return count > 0, err
}

type QuestionFilter struct {
	SubjectID  string
	TopicID    string
	Type       model.QuestionType
	Difficulty int
	Status     model.QuestionStatus
}

func (r *QuestionRepository) List(filter QuestionFilter, page, limit int) ([]model.Question, int64, error) {
	query := r.DB.Model(&model.Question{})
	if filter.SubjectID != "" {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.TopicID != "" {
		query = query.Where("topic_id = ?", filter.TopicID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Difficulty > 0 {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var questions []model.Question
	err := query.Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&questions).Error
	return questions, total, err
}
