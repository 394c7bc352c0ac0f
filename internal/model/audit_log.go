package model

import (
	"encoding/json"
	"time"
)

// AuditLog is an append-only record of administrative actions and attempt
// transitions. Writers never update or delete rows.
// swagger:model AuditLog
type AuditLog struct {
	UUIDBase
	UserID     string          `gorm:"index;type:varchar(36);not null" json:"userId"`
	Action     string          `gorm:"size:100;index;not null" json:"action"`
	EntityType string          `gorm:"size:50;index;not null" json:"entityType"`
	EntityID   string          `gorm:"index;type:varchar(36)" json:"entityId"`
	Changes    json.RawMessage `gorm:"type:json" json:"changes,omitempty"`
	IPAddress  string          `gorm:"size:45" json:"ipAddress"`
	Timestamp  time.Time       `gorm:"index;not null" json:"timestamp"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
