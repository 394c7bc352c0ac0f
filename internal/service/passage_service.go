package service

import (
	"errors"

	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/repository"
	"jamb_cbt_backend/internal/util"

	"gorm.io/gorm"
)

type PassageService struct {
	Repo        *repository.PassageRepository
	SubjectRepo *repository.SubjectRepository
	Audit       *AuditService
}

func NewPassageService(repo *repository.PassageRepository, subjectRepo *repository.SubjectRepository, audit *AuditService) *PassageService {
	return &PassageService{Repo: repo, SubjectRepo: subjectRepo, Audit: audit}
}

type PassageRequest struct {
	SubjectID string `json:"subjectId" binding:"required"`
	Title     string `json:"title"`
	Content   string `json:"content" binding:"required"`
}

func (s *PassageService) Create(actorID string, req PassageRequest) (*model.Passage, error) {
	if _, err := s.SubjectRepo.FindByID(req.SubjectID); err != nil {
		return nil, util.NotFoundError("subject not found")
	}

	passage := &model.Passage{
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Content:   req.Content,
	}
	if err := s.Repo.Create(passage); err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "passage.created", "passage", passage.ID, nil)
	return passage, nil
}

func (s *PassageService) Update(actorID, id string, req PassageRequest) (*model.Passage, error) {
	passage, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("passage not found")
		}
		return nil, err
	}
	if _, err := s.SubjectRepo.FindByID(req.SubjectID); err != nil {
		return nil, util.NotFoundError("subject not found")
	}

	passage.SubjectID = req.SubjectID
	passage.Title = req.Title
	passage.Content = req.Content

	if err := s.Repo.Update(passage); err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "passage.updated", "passage", passage.ID, nil)
	return passage, nil
}

// Delete detaches the passage from its questions; the questions stay in the
// bank and render without a passage afterwards.
func (s *PassageService) Delete(actorID, id string) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundError("passage not found")
		}
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.Audit.Record(actorID, "passage.deleted", "passage", id, nil)
	return nil
}

func (s *PassageService) Get(id string) (*model.Passage, error) {
	passage, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("passage not found")
		}
		return nil, err
	}
	return passage, nil
}

func (s *PassageService) List(subjectID string, page, limit int) ([]model.Passage, int64, error) {
	return s.Repo.List(subjectID, page, limit)
}
