package service

import (
	"encoding/json"
	"time"

	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/repository"
	"jamb_cbt_backend/pkg/logger"

	"go.uber.org/zap"
)

type AuditService struct {
	Repo *repository.AuditRepository
}

func NewAuditService(repo *repository.AuditRepository) *AuditService {
	return &AuditService{Repo: repo}
}

// Record appends one audit entry asynchronously. Audit failures are logged
// and never propagated: an attempt transition must not roll back because the
// audit write failed.
func (s *AuditService) Record(actorID, action, entityType, entityID string, changes interface{}) {
	entry := &model.AuditLog{
		UserID:     actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Timestamp:  time.Now(),
	}

	if changes != nil {
		if raw, err := json.Marshal(changes); err == nil {
			entry.Changes = raw
		}
	}

	go func() {
		if err := s.Repo.Create(entry); err != nil {
			logger.Log.Error("audit write failed",
				zap.String("action", action),
				zap.String("entityId", entityID),
				zap.Error(err))
		}
	}()
}

// RecordWithIP is the synchronous-caller variant used by admin controllers
// that have the client address at hand.
func (s *AuditService) RecordWithIP(actorID, action, entityType, entityID, ip string, changes interface{}) {
	entry := &model.AuditLog{
		UserID:     actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  ip,
		Timestamp:  time.Now(),
	}

	if changes != nil {
		if raw, err := json.Marshal(changes); err == nil {
			entry.Changes = raw
		}
	}

	go func() {
		if err := s.Repo.Create(entry); err != nil {
			logger.Log.Error("audit write failed",
				zap.String("action", action),
				zap.String("entityId", entityID),
				zap.Error(err))
		}
	}()
}

func (s *AuditService) List(filter repository.AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	return s.Repo.List(filter, page, limit)
}
