package service

import (
	"encoding/json"
	"errors"
	"time"

	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/repository"
	"jamb_cbt_backend/internal/util"

	"gorm.io/gorm"
)

type ExamService struct {
	Repo        *repository.ExamRepository
	SubjectRepo *repository.SubjectRepository
	Audit       *AuditService
}

func NewExamService(repo *repository.ExamRepository, subjectRepo *repository.SubjectRepository, audit *AuditService) *ExamService {
	return &ExamService{Repo: repo, SubjectRepo: subjectRepo, Audit: audit}
}

type SectionRequest struct {
	SubjectID         string  `json:"subjectId" binding:"required"`
	TimeLimitMinutes  int     `json:"timeLimitMinutes" binding:"required,min=1"`
	NumQuestions      int     `json:"numQuestions" binding:"required,min=1"`
	NegativeMarking   bool    `json:"negativeMarking"`
	NegativeMarkValue float64 `json:"negativeMarkValue"`
	ShuffleQuestions  *bool   `json:"shuffleQuestions"`
	ShuffleOptions    *bool   `json:"shuffleOptions"`
}

type TemplateRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Sections    []SectionRequest `json:"sections" binding:"required,min=1"`
}

func (s *ExamService) buildSections(req TemplateRequest) ([]model.ExamSection, error) {
	sections := make([]model.ExamSection, 0, len(req.Sections))
	for i, sec := range req.Sections {
		if _, err := s.SubjectRepo.FindByID(sec.SubjectID); err != nil {
			return nil, util.NotFoundError("section subject not found")
		}
		if sec.NegativeMarking && sec.NegativeMarkValue <= 0 {
			return nil, util.ValidationError("negative marking requires a positive mark value")
		}

		shuffleQuestions := true
		if sec.ShuffleQuestions != nil {
			shuffleQuestions = *sec.ShuffleQuestions
		}
		shuffleOptions := true
		if sec.ShuffleOptions != nil {
			shuffleOptions = *sec.ShuffleOptions
		}

		sections = append(sections, model.ExamSection{
			SubjectID:         sec.SubjectID,
			TimeLimitMinutes:  sec.TimeLimitMinutes,
			NumQuestions:      sec.NumQuestions,
			NegativeMarking:   sec.NegativeMarking,
			NegativeMarkValue: sec.NegativeMarkValue,
			ShuffleQuestions:  shuffleQuestions,
			ShuffleOptions:    shuffleOptions,
			SectionOrder:      i,
		})
	}
	return sections, nil
}

func (s *ExamService) CreateTemplate(actorID string, req TemplateRequest) (*model.ExamTemplate, error) {
	sections, err := s.buildSections(req)
	if err != nil {
		return nil, err
	}

	template := &model.ExamTemplate{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actorID,
		Sections:    sections,
	}
	if err := s.Repo.CreateTemplate(template); err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "exam_template.created", "exam_template", template.ID, nil)
	return template, nil
}

// UpdateTemplate rejects changes once any instance is scheduled against the
// template: the section rows are replaced wholesale on update, which would
// orphan the section ids frozen into live attempts and break their scoring.
func (s *ExamService) UpdateTemplate(actorID, id string, req TemplateRequest) (*model.ExamTemplate, error) {
	template, err := s.Repo.FindTemplateByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTemplateNotFound
		}
		return nil, err
	}

	inUse, err := s.Repo.TemplateInUse(id)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, util.ConflictError("template has scheduled instances and cannot be modified")
	}

	sections, err := s.buildSections(req)
	if err != nil {
		return nil, err
	}

	template.Name = req.Name
	template.Description = req.Description
	template.Sections = sections

	if err := s.Repo.UpdateTemplate(template); err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "exam_template.updated", "exam_template", template.ID, nil)
	return s.Repo.FindTemplateByID(id)
}

func (s *ExamService) DeleteTemplate(actorID, id string) error {
	if _, err := s.Repo.FindTemplateByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTemplateNotFound
		}
		return err
	}
	inUse, err := s.Repo.TemplateInUse(id)
	if err != nil {
		return err
	}
	if inUse {
		return util.ConflictError("template has scheduled instances and cannot be deleted")
	}
	if err := s.Repo.DeleteTemplate(id); err != nil {
		return err
	}
	s.Audit.Record(actorID, "exam_template.deleted", "exam_template", id, nil)
	return nil
}

func (s *ExamService) GetTemplate(id string) (*model.ExamTemplate, error) {
	template, err := s.Repo.FindTemplateByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

func (s *ExamService) ListTemplates(page, limit int) ([]model.ExamTemplate, int64, error) {
	return s.Repo.ListTemplates(page, limit)
}

type InstanceRequest struct {
	TemplateID      string           `json:"templateId" binding:"required"`
	Name            string           `json:"name" binding:"required"`
	ScheduledAt     time.Time        `json:"scheduledAt" binding:"required"`
	DurationMinutes int              `json:"durationMinutes" binding:"required,min=1"`
	AllowedRoles    []model.UserRole `json:"allowedRoles" binding:"required,min=1"`
}

func (s *ExamService) CreateInstance(actorID string, req InstanceRequest) (*model.ExamInstance, error) {
	if _, err := s.Repo.FindTemplateByID(req.TemplateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTemplateNotFound
		}
		return nil, err
	}
	for _, role := range req.AllowedRoles {
		if !model.ValidRole(role) {
			return nil, util.ValidationError("unknown role in allowed roles")
		}
	}

	roles, _ := json.Marshal(req.AllowedRoles)
	instance := &model.ExamInstance{
		TemplateID:      req.TemplateID,
		Name:            req.Name,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		AllowedRoles:    roles,
		Status:          model.InstanceScheduled,
	}
	if err := s.Repo.CreateInstance(instance); err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "exam_instance.created", "exam_instance", instance.ID, nil)
	return instance, nil
}

func (s *ExamService) GetInstance(id string) (*model.ExamInstance, error) {
	instance, err := s.Repo.FindInstanceByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInstanceNotFound
		}
		return nil, err
	}
	return instance, nil
}

func (s *ExamService) DeleteInstance(actorID, id string) error {
	if _, err := s.Repo.FindInstanceByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrInstanceNotFound
		}
		return err
	}
	if err := s.Repo.DeleteInstance(id); err != nil {
		return err
	}
	s.Audit.Record(actorID, "exam_instance.deleted", "exam_instance", id, nil)
	return nil
}

func (s *ExamService) ListInstances(page, limit int, status model.ExamInstanceStatus) ([]model.ExamInstance, int64, error) {
	return s.Repo.ListInstances(page, limit, status)
}
