package model

// swagger:model Subject
type Subject struct {
	UUIDBase
	Name string `gorm:"size:100;unique;not null" json:"name"`
	Code string `gorm:"size:10;unique;not null" json:"code"`
}

func (Subject) TableName() string {
	return "subjects"
}

// swagger:model Topic
type Topic struct {
	UUIDBase
	SubjectID     string  `gorm:"index;type:varchar(36);not null" json:"subjectId"`
	Name          string  `gorm:"size:255;not null" json:"name"`
	ParentTopicID *string `gorm:"type:varchar(36)" json:"parentTopicId,omitempty"`
}

func (Topic) TableName() string {
	return "topics"
}
