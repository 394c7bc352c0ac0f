package service

import (
	"errors"

	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/repository"
	"jamb_cbt_backend/internal/util"

	"gorm.io/gorm"
)

type SchoolService struct {
	Repo  *repository.SchoolRepository
	Audit *AuditService
}

func NewSchoolService(repo *repository.SchoolRepository, audit *AuditService) *SchoolService {
	return &SchoolService{Repo: repo, Audit: audit}
}

type SchoolRequest struct {
	Name    string           `json:"name" binding:"required"`
	State   string           `json:"state" binding:"required"`
	LGA     string           `json:"lga"`
	Type    model.SchoolType `json:"type"`
	Address string           `json:"address"`
}

func (s *SchoolService) Create(actorID string, req SchoolRequest) (*model.SchoolRecord, error) {
	if !model.ValidState(req.State) {
		return nil, util.ValidationError("unknown state")
	}
	if req.Type == "" {
		req.Type = model.SchoolPublic
	}

	school := &model.SchoolRecord{
		Name:    req.Name,
		State:   req.State,
		LGA:     req.LGA,
		Type:    req.Type,
		Address: req.Address,
	}
	if err := s.Repo.Create(school); err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "school.created", "school", school.ID, req)
	return school, nil
}

func (s *SchoolService) Update(actorID, id string, req SchoolRequest) (*model.SchoolRecord, error) {
	school, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("school not found")
		}
		return nil, err
	}

	if !model.ValidState(req.State) {
		return nil, util.ValidationError("unknown state")
	}

	school.Name = req.Name
	school.State = req.State
	school.LGA = req.LGA
	if req.Type != "" {
		school.Type = req.Type
	}
	school.Address = req.Address

	if err := s.Repo.Update(school); err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "school.updated", "school", school.ID, req)
	return school, nil
}

func (s *SchoolService) Delete(actorID, id string) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundError("school not found")
		}
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.Audit.Record(actorID, "school.deleted", "school", id, nil)
	return nil
}

func (s *SchoolService) Get(id string) (*model.SchoolRecord, error) {
	school, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("school not found")
		}
		return nil, err
	}
	return school, nil
}

func (s *SchoolService) List(page, limit int, state string) ([]model.SchoolRecord, int64, error) {
	return s.Repo.List(page, limit, state)
}
