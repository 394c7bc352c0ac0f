package model

type SchoolType string

const (
	SchoolPublic  SchoolType = "public"
	SchoolPrivate SchoolType = "private"
)

// swagger:model SchoolRecord
type SchoolRecord struct {
	UUIDBase
	Name    string     `gorm:"size:255;not null" json:"name"`
	State   string     `gorm:"size:50;not null" json:"state"`
	LGA     string     `gorm:"size:100" json:"lga"`
	Type    SchoolType `gorm:"type:enum('public','private');default:'public'" json:"type"`
	Address string     `gorm:"size:255" json:"address"`
}

func (SchoolRecord) TableName() string {
	return "schools"
}
