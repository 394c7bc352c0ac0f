package model

import (
	"time"
)

type UserRole string

const (
	Candidate UserRole = "candidate"
	Tutor     UserRole = "tutor"
	Admin     UserRole = "admin"
	School    UserRole = "school"
)

// ValidRole reports whether r belongs to the closed role set.
func ValidRole(r UserRole) bool {
	switch r {
	case Candidate, Tutor, Admin, School:
		return true
	}
	return false
}

type Cohort string

const (
	CohortSS1 Cohort = "SS1"
	CohortSS2 Cohort = "SS2"
	CohortSS3 Cohort = "SS3"
)

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// swagger:model User
type User struct {
	UUIDBase
	Name         string     `gorm:"size:100;not null" json:"name"`
	Email        string     `gorm:"size:100;unique;not null" json:"email"`
	Password     string     `gorm:"size:100;not null" json:"-"`
	Role         UserRole   `gorm:"type:enum('candidate','tutor','admin','school');default:'candidate'" json:"role"`
	SchoolID     *string    `gorm:"index;type:varchar(36)" json:"schoolId,omitempty"`
	Cohort       *Cohort    `gorm:"type:enum('SS1','SS2','SS3')" json:"cohort,omitempty"`
	Status       UserStatus `gorm:"type:enum('active','inactive');default:'active'" json:"status"`
	LastActiveAt time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastActiveAt"`
}

func (User) TableName() string {
	return "users"
}
