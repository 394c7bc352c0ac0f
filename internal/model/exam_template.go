package model

// swagger:model ExamTemplate
type ExamTemplate struct {
	UUIDBase
	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	CreatedBy   string        `gorm:"index;type:varchar(36);not null" json:"createdBy"`
	Sections    []ExamSection `gorm:"foreignKey:TemplateID" json:"sections"`
}

func (ExamTemplate) TableName() string {
	return "exam_templates"
}

// ExamSection is a subject-scoped slice of a template: how many questions to
// draw, the marking rules and the shuffle flags. A template is a blueprint and
// is never scored directly.
// swagger:model ExamSection
type ExamSection struct {
	UUIDBase
	TemplateID        string  `gorm:"index;type:varchar(36);not null" json:"templateId"`
	SubjectID         string  `gorm:"index;type:varchar(36);not null" json:"subjectId"`
	TimeLimitMinutes  int     `gorm:"not null" json:"timeLimitMinutes"`
	NumQuestions      int     `gorm:"not null" json:"numQuestions"`
	NegativeMarking   bool    `gorm:"default:false" json:"negativeMarking"`
	NegativeMarkValue float64 `gorm:"type:decimal(3,2);default:0" json:"negativeMarkValue"`
	ShuffleQuestions  bool    `gorm:"default:true" json:"shuffleQuestions"`
	ShuffleOptions    bool    `gorm:"default:true" json:"shuffleOptions"`
	SectionOrder      int     `gorm:"default:0" json:"sectionOrder"`
}

func (ExamSection) TableName() string {
	return "exam_sections"
}
