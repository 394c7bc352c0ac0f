package service

import (
	"errors"

	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/repository"
	"jamb_cbt_backend/internal/util"

	"gorm.io/gorm"
)

type SubjectService struct {
	Repo *repository.SubjectRepository
}

func NewSubjectService(repo *repository.SubjectRepository) *SubjectService {
	return &SubjectService{Repo: repo}
}

type SubjectRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required,max=10"`
}

func (s *SubjectService) Create(req SubjectRequest) (*model.Subject, error) {
	if _, err := s.Repo.FindByCode(req.Code); err == nil {
		return nil, util.ConflictError("subject code already exists")
	}

	subject := &model.Subject{Name: req.Name, Code: req.Code}
	if err := s.Repo.Create(subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Get(id string) (*model.Subject, error) {
	subject, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("subject not found")
		}
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) ListAll() ([]model.Subject, error) {
	return s.Repo.ListAll()
}

type TopicRequest struct {
	SubjectID     string  `json:"subjectId" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	ParentTopicID *string `json:"parentTopicId"`
}

func (s *SubjectService) CreateTopic(req TopicRequest) (*model.Topic, error) {
	if _, err := s.Repo.FindByID(req.SubjectID); err != nil {
		return nil, util.NotFoundError("subject not found")
	}
	if req.ParentTopicID != nil {
		if _, err := s.Repo.FindTopicByID(*req.ParentTopicID); err != nil {
			return nil, util.NotFoundError("parent topic not found")
		}
	}

	topic := &model.Topic{
		SubjectID:     req.SubjectID,
		Name:          req.Name,
		ParentTopicID: req.ParentTopicID,
	}
	if err := s.Repo.CreateTopic(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *SubjectService) ListTopics(subjectID string) ([]model.Topic, error) {
	return s.Repo.ListTopics(subjectID)
}
