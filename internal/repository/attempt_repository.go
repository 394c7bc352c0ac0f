package repository

import (
	"errors"
	"strings"
	"time"

	"jamb_cbt_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// IsDuplicateKey reports whether err came from a unique index violation. The
// (user_id, active_key) index turns concurrent attempt creation races into
// this error instead of a second in-progress row.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}

func (r *AttemptRepository) Create(attempt *model.ExamAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.DB.First(&attempt, "id = ?", id).Error
	return &attempt, err
}

// FindNonExpiredByUserAndInstance returns any in-progress or completed
// attempt; only an expired attempt permits a retake.
func (r *AttemptRepository) FindNonExpiredByUserAndInstance(userID, instanceID string) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.DB.Where("user_id = ? AND exam_instance_id = ? AND status <> ?",
		userID, instanceID, model.AttemptExpired).
		First(&attempt).Error
	return &attempt, err
}

func (r *AttemptRepository) ListByUser(userID string, page, limit int) ([]model.ExamAttempt, int64, error) {
	query := r.DB.Model(&model.ExamAttempt{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []model.ExamAttempt
	err := query.Order("started_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&attempts).Error
	return attempts, total, err
}

func (r *AttemptRepository) UpdateFlagged(attemptID string, flagged []byte) error {
	return r.DB.Model(&model.ExamAttempt{}).
		Where("id = ?", attemptID).
		Update("flagged_questions", flagged).
		Error
}

// Finalize persists the one-shot terminal transition: status, score,
// breakdown and submitted_at are written together and active_key is cleared
// so the uniqueness guard frees up for a future retake.
func (r *AttemptRepository) Finalize(attempt *model.ExamAttempt) error {
	return r.DB.Model(&model.ExamAttempt{}).
		Where("id = ? AND status = ?", attempt.ID, model.AttemptInProgress).
		Updates(map[string]interface{}{
			"status":          attempt.Status,
			"score":           attempt.Score,
			"score_breakdown": attempt.ScoreBreakdown,
			"submitted_at":    attempt.SubmittedAt,
			"active_key":      nil,
		}).Error
}

// UpsertResponse implements last-write-wins on the unique (attempt, question)
// pair: the response payload and the time spent are replaced, never
// accumulated.
func (r *AttemptRepository) UpsertResponse(response *model.ExamResponse) error {
	response.AnsweredAt = time.Now()
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"response", "time_spent_seconds", "answered_at", "updated_at",
		}),
	}).Create(response).Error
}

func (r *AttemptRepository) ListResponses(attemptID string) ([]model.ExamResponse, error) {
	var responses []model.ExamResponse
	err := r.DB.Where("attempt_id = ?", attemptID).Find(&responses).Error
	return responses, err
}
