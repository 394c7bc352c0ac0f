package model

import (
	"encoding/json"
	"time"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptExpired    AttemptStatus = "expired"
)

// Terminal reports whether the status permits no further transitions.
func (s AttemptStatus) Terminal() bool {
	return s == AttemptCompleted || s == AttemptExpired
}

// AttemptQuestion is one entry of an attempt's frozen question list. The
// option order is the per-attempt permutation decided at creation time; the
// shared question row is never mutated.
type AttemptQuestion struct {
	QuestionID  string   `json:"questionId"`
	SectionID   string   `json:"sectionId"`
	OptionOrder []string `json:"optionOrder,omitempty"`
}

// swagger:model ExamAttempt
type ExamAttempt struct {
	UUIDBase
	UserID           string          `gorm:"index;type:varchar(36);not null;uniqueIndex:idx_attempt_active" json:"userId"`
	ExamInstanceID   string          `gorm:"index;type:varchar(36);not null" json:"examInstanceId"`
	Questions        json.RawMessage `gorm:"type:json;not null" json:"questions"` // []AttemptQuestion, frozen at creation
	FlaggedQuestions json.RawMessage `gorm:"type:json" json:"flaggedQuestions"`   // []string
	StartedAt        time.Time       `gorm:"not null" json:"startedAt"`
	SubmittedAt      *time.Time      `json:"submittedAt,omitempty"`
	Status           AttemptStatus   `gorm:"size:20;index;default:'in_progress'" json:"status"`
	Score            *float64        `gorm:"type:decimal(5,2)" json:"score,omitempty"`
	ScoreBreakdown   json.RawMessage `gorm:"type:json" json:"scoreBreakdown,omitempty"`

	// ActiveKey holds the instance id while the attempt is in progress and is
	// cleared when it reaches a terminal status. The unique index over
	// (user_id, active_key) is what actually prevents two concurrent
	// in-progress attempts; MySQL skips NULL values in unique indexes, so
	// finalized attempts never collide.
	ActiveKey *string `gorm:"type:varchar(36);uniqueIndex:idx_attempt_active" json:"-"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}

// DecodedQuestions unmarshals the frozen question list.
func (a *ExamAttempt) DecodedQuestions() ([]AttemptQuestion, error) {
	if len(a.Questions) == 0 {
		return nil, nil
	}
	var qs []AttemptQuestion
	if err := json.Unmarshal(a.Questions, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// Deadline is the moment the attempt expires, taken from the owning
// instance's duration, not the template's section limits.
func (a *ExamAttempt) Deadline(durationMinutes int) time.Time {
	return a.StartedAt.Add(time.Duration(durationMinutes) * time.Minute)
}

// ExamResponse stores one submitted answer. The unique (attempt, question)
// index plus an upsert gives last-write-wins semantics without application
// level locking.
// swagger:model ExamResponse
type ExamResponse struct {
	UUIDBase
	AttemptID        string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_response_attempt_question" json:"attemptId"`
	QuestionID       string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_response_attempt_question" json:"questionId"`
	Response         json.RawMessage `gorm:"type:json;not null" json:"response"` // string or []string depending on question type
	TimeSpentSeconds int             `gorm:"default:0" json:"timeSpentSeconds"`
	AnsweredAt       time.Time       `gorm:"not null" json:"answeredAt"`
}

func (ExamResponse) TableName() string {
	return "exam_responses"
}

// GroupScore is the earned/possible pair for one subject or topic group.
type GroupScore struct {
	GroupID  string  `json:"groupId"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore"`
}

// ScoreBreakdown aggregates the final score by subject and by topic.
type ScoreBreakdown struct {
	TotalScore    float64      `json:"totalScore"`
	MaxScore      float64      `json:"maxScore"`
	Percentage    float64      `json:"percentage"`
	SubjectScores []GroupScore `json:"subjectScores"`
	TopicScores   []GroupScore `json:"topicScores"`
}
