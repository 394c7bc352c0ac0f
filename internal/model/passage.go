package model

// Passage is a shared reading-comprehension text. Questions reference it by
// id and it is rendered alongside their stem during an attempt.
// swagger:model Passage
type Passage struct {
	UUIDBase
	SubjectID string `gorm:"index;type:varchar(36);not null" json:"subjectId"`
	Title     string `gorm:"size:255" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
}

func (Passage) TableName() string {
	return "passages"
}
