package model

import "encoding/json"

type QuestionType string

const (
	SingleChoice QuestionType = "single_choice"
	MultiChoice  QuestionType = "multi_choice"
	FreeText     QuestionType = "free_text"
	Numeric      QuestionType = "numeric"
)

func ValidQuestionType(t QuestionType) bool {
	switch t {
	case SingleChoice, MultiChoice, FreeText, Numeric:
		return true
	}
	return false
}

type QuestionStatus string

const (
	QuestionActive  QuestionStatus = "active"
	QuestionDeleted QuestionStatus = "deleted"
)

// QuestionOption is one answer choice of a choice question, stored inside the
// question's options JSON column.
type QuestionOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// swagger:model Question
type Question struct {
	UUIDBase
	SubjectID      string          `gorm:"index;type:varchar(36);not null" json:"subjectId"`
	TopicID        string          `gorm:"index;type:varchar(36);not null" json:"topicId"`
	Type           QuestionType    `gorm:"size:20;not null" json:"type"`
	Stem           string          `gorm:"type:text;not null" json:"stem"`
	PassageID      *string         `gorm:"index;type:varchar(36)" json:"passageId,omitempty"`
	Options        json.RawMessage `gorm:"type:json" json:"options"`        // []QuestionOption, ordered
	CorrectAnswers json.RawMessage `gorm:"type:json" json:"correctAnswers"` // []string of option labels or the expected text/number
	Explanation    string          `gorm:"type:text" json:"explanation"`
	Difficulty     int             `gorm:"default:3" json:"difficulty"` // 1-5
	Tags           json.RawMessage `gorm:"type:json" json:"tags"`
	MediaURLs      json.RawMessage `gorm:"type:json" json:"mediaUrls"`
	Status         QuestionStatus  `gorm:"size:10;index;default:'active'" json:"status"`
}

func (Question) TableName() string {
	return "questions"
}

// DecodedOptions unmarshals the options column.
func (q *Question) DecodedOptions() ([]QuestionOption, error) {
	if len(q.Options) == 0 {
		return nil, nil
	}
	var opts []QuestionOption
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// DecodedCorrectAnswers unmarshals the correct answer set column.
func (q *Question) DecodedCorrectAnswers() ([]string, error) {
	if len(q.CorrectAnswers) == 0 {
		return nil, nil
	}
	var answers []string
	if err := json.Unmarshal(q.CorrectAnswers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
