package service

import (
	"errors"

	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/repository"
	"jamb_cbt_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo   *repository.UserRepository
	SchoolRepo *repository.SchoolRepository
}

func NewUserService(userRepo *repository.UserRepository, schoolRepo *repository.SchoolRepository) *UserService {
	return &UserService{UserRepo: userRepo, SchoolRepo: schoolRepo}
}

type UpdateProfileRequest struct {
	Name     *string       `json:"name"`
	SchoolID *string       `json:"schoolId"`
	Cohort   *model.Cohort `json:"cohort"`
}

func (s *UserService) UpdateProfile(userID string, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("user not found")
		}
		return nil, err
	}

	if req.Name != nil {
		if len(*req.Name) < 2 {
			return nil, util.ValidationError("name too short")
		}
		user.Name = *req.Name
	}
	if req.SchoolID != nil {
		if _, err := s.SchoolRepo.FindByID(*req.SchoolID); err != nil {
			return nil, util.NotFoundError("school not found")
		}
		user.SchoolID = req.SchoolID
	}
	if req.Cohort != nil {
		switch *req.Cohort {
		case model.CohortSS1, model.CohortSS2, model.CohortSS3:
			user.Cohort = req.Cohort
		default:
			return nil, util.ValidationError("unknown cohort")
		}
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetStatus activates or deactivates an account (admin only).
func (s *UserService) SetStatus(userID string, status model.UserStatus) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("user not found")
		}
		return nil, err
	}

	user.Status = status
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(page, limit int, role model.UserRole) ([]model.User, int64, error) {
	return s.UserRepo.List(page, limit, role)
}
