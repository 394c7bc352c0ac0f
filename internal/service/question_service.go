package service

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/repository"
	"jamb_cbt_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionService struct {
	Repo        *repository.QuestionRepository
	SubjectRepo *repository.SubjectRepository
	PassageRepo *repository.PassageRepository
	Audit       *AuditService
}

func NewQuestionService(repo *repository.QuestionRepository, subjectRepo *repository.SubjectRepository, passageRepo *repository.PassageRepository, audit *AuditService) *QuestionService {
	return &QuestionService{Repo: repo, SubjectRepo: subjectRepo, PassageRepo: passageRepo, Audit: audit}
}

type QuestionRequest struct {
	SubjectID      string                 `json:"subjectId" binding:"required"`
	TopicID        string                 `json:"topicId" binding:"required"`
	Type           model.QuestionType     `json:"type" binding:"required"`
	Stem           string                 `json:"stem" binding:"required"`
	PassageID      *string                `json:"passageId"`
	Options        []model.QuestionOption `json:"options"`
	CorrectAnswers []string               `json:"correctAnswers"`
	Explanation    string                 `json:"explanation"`
	Difficulty     int                    `json:"difficulty"`
	Tags           []string               `json:"tags"`
	MediaURLs      []string               `json:"mediaUrls"`
}

func (s *QuestionService) validate(req *QuestionRequest) error {
	if !model.ValidQuestionType(req.Type) {
		return util.ValidationError("unknown question type")
	}
	if req.Difficulty == 0 {
		req.Difficulty = 3
	}
	if req.Difficulty < 1 || req.Difficulty > 5 {
		return util.ValidationError("difficulty must be between 1 and 5")
	}

	switch req.Type {
	case model.SingleChoice, model.MultiChoice:
		if len(req.Options) < 2 {
			return util.ValidationError("choice questions need at least two options")
		}
		labels := make(map[string]bool, len(req.Options))
		for _, o := range req.Options {
			if o.ID == "" || o.Label == "" {
				return util.ValidationError("options need an id and a label")
			}
			labels[o.Label] = true
		}
		for _, a := range req.CorrectAnswers {
			if !labels[a] {
				return util.ValidationError("correct answer does not match any option label")
			}
		}
		if req.Type == model.SingleChoice && len(req.CorrectAnswers) > 1 {
			return util.ValidationError("single choice question cannot have multiple correct answers")
		}
	case model.Numeric:
		for _, a := range req.CorrectAnswers {
			if _, err := strconv.ParseFloat(strings.TrimSpace(a), 64); err != nil {
				return util.ValidationError("numeric correct answer must be a number")
			}
		}
	}
	return nil
}

// checkPassage resolves an optional passage reference and pins it to the
// question's subject.
func (s *QuestionService) checkPassage(req *QuestionRequest) error {
	if req.PassageID == nil {
		return nil
	}
	passage, err := s.PassageRepo.FindByID(*req.PassageID)
	if err != nil {
		return util.NotFoundError("passage not found")
	}
	if passage.SubjectID != req.SubjectID {
		return util.ValidationError("passage belongs to a different subject")
	}
	return nil
}

func (s *QuestionService) Create(actorID string, req QuestionRequest) (*model.Question, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	if _, err := s.SubjectRepo.FindByID(req.SubjectID); err != nil {
		return nil, util.NotFoundError("subject not found")
	}
	if _, err := s.SubjectRepo.FindTopicByID(req.TopicID); err != nil {
		return nil, util.NotFoundError("topic not found")
	}
	if err := s.checkPassage(&req); err != nil {
		return nil, err
	}

	question := &model.Question{
		SubjectID:   req.SubjectID,
		TopicID:     req.TopicID,
		Type:        req.Type,
		Stem:        req.Stem,
		PassageID:   req.PassageID,
		Explanation: req.Explanation,
		Difficulty:  req.Difficulty,
		Status:      model.QuestionActive,
	}
	question.Options, _ = json.Marshal(req.Options)
	question.CorrectAnswers, _ = json.Marshal(req.CorrectAnswers)
	question.Tags, _ = json.Marshal(req.Tags)
	question.MediaURLs, _ = json.Marshal(req.MediaURLs)

	if err := s.Repo.Create(question); err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "question.created", "question", question.ID, nil)
	return question, nil
}

// Update rejects changes to any question already referenced by an attempt's
// frozen list: scoring must stay reproducible.
func (s *QuestionService) Update(actorID, id string, req QuestionRequest) (*model.Question, error) {
	question, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("question not found")
		}
		return nil, err
	}

	referenced, err := s.Repo.ReferencedByAttempt(id)
	if err != nil {
		return nil, err
	}
	if referenced {
		return nil, util.ConflictError("question is referenced by an attempt and cannot be modified")
	}

	if err := s.validate(&req); err != nil {
		return nil, err
	}
	if err := s.checkPassage(&req); err != nil {
		return nil, err
	}

	question.SubjectID = req.SubjectID
	question.TopicID = req.TopicID
	question.Type = req.Type
	question.Stem = req.Stem
	question.PassageID = req.PassageID
	question.Explanation = req.Explanation
	question.Difficulty = req.Difficulty
	question.Options, _ = json.Marshal(req.Options)
	question.CorrectAnswers, _ = json.Marshal(req.CorrectAnswers)
	question.Tags, _ = json.Marshal(req.Tags)
	question.MediaURLs, _ = json.Marshal(req.MediaURLs)

	if err := s.Repo.Update(question); err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "question.updated", "question", question.ID, nil)
	return question, nil
}

// Delete flips the status to deleted. The row survives so attempts that
// froze the question keep scoring against it.
func (s *QuestionService) Delete(actorID, id string) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundError("question not found")
		}
		return err
	}
	if err := s.Repo.MarkDeleted(id); err != nil {
		return err
	}
	s.Audit.Record(actorID, "question.deleted", "question", id, nil)
	return nil
}

func (s *QuestionService) Get(id string) (*model.Question, error) {
	question, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("question not found")
		}
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) List(filter repository.QuestionFilter, page, limit int) ([]model.Question, int64, error) {
	return s.Repo.List(filter, page, limit)
}
