package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fly8-hq/fly8-api/internal/models"
)

type auditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// AuditRecorder appends audit trail entries for selected mutating actions.
// Recording is fire and forget: failures are logged and swallowed so the
// primary operation is never blocked by the audit trail.
type AuditRecorder struct {
	repo   auditRepository
	logger *zap.Logger
}

// NewAuditRecorder constructs the recorder.
func NewAuditRecorder(repo auditRepository, logger *zap.Logger) *AuditRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditRecorder{repo: repo, logger: logger}
}

// Record appends an audit entry for the actor. The error, if any, is
// discarded after local logging.
func (s *AuditRecorder) Record(ctx context.Context, actorID string, action models.AuditAction, resourceType, resourceID string, details interface{}, reqCtx *models.RequestContext) {
	entry := &models.AuditLog{
		UserID:  actorID,
		Action:  action,
		Details: models.MarshalMetadata(details),
	}
	if resourceType != "" {
		entry.ResourceType = &resourceType
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if reqCtx != nil {
		if reqCtx.IPAddress != "" {
			entry.IPAddress = &reqCtx.IPAddress
		}
		if reqCtx.UserAgent != "" {
			entry.UserAgent = &reqCtx.UserAgent
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit log",
			zap.String("action", string(action)),
			zap.String("actor_id", actorID),
			zap.Error(err),
		)
	}
}
