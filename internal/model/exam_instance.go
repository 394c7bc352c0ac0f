package model

import (
	"encoding/json"
	"time"
)

type ExamInstanceStatus string

const (
	InstanceScheduled ExamInstanceStatus = "scheduled"
	InstanceActive    ExamInstanceStatus = "active"
	InstanceCompleted ExamInstanceStatus = "completed"
)

// ExamInstance is one scheduled occurrence of a template: a time window plus
// the set of roles allowed to sit it.
// swagger:model ExamInstance
type ExamInstance struct {
	UUIDBase
	TemplateID      string             `gorm:"index;type:varchar(36);not null" json:"templateId"`
	Name            string             `gorm:"size:255;not null" json:"name"`
	ScheduledAt     time.Time          `gorm:"index;not null" json:"scheduledAt"`
	DurationMinutes int                `gorm:"not null" json:"durationMinutes"`
	AllowedRoles    json.RawMessage    `gorm:"type:json" json:"allowedRoles"` // []UserRole
	Status          ExamInstanceStatus `gorm:"size:20;index;default:'scheduled'" json:"status"`
}

func (ExamInstance) TableName() string {
	return "exam_instances"
}

// WindowOpen reports whether t falls inside the instance's scheduled window.
func (i *ExamInstance) WindowOpen(t time.Time) bool {
	end := i.ScheduledAt.Add(time.Duration(i.DurationMinutes) * time.Minute)
	return !t.Before(i.ScheduledAt) && !t.After(end)
}

// RoleAllowed reports whether role appears in the instance's allowed-role set.
func (i *ExamInstance) RoleAllowed(role UserRole) (bool, error) {
	if len(i.AllowedRoles) == 0 {
		return false, nil
	}
	var roles []UserRole
	if err := json.Unmarshal(i.AllowedRoles, &roles); err != nil {
		return false, err
	}
	for _, r := range roles {
		if r == role {
			return true, nil
		}
	}
	return false, nil
}
