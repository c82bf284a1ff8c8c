package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fly8-hq/fly8-api/internal/models"
)

// AuditRepository provides append-only persistence for the audit trail.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends an audit log entry.
func (r *AuditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}

	const query = `INSERT INTO audit_logs (id, user_id, action, resource_type, resource_id, details, ip_address, user_agent, timestamp) VALUES (:id, :user_id, :action, :resource_type, :resource_id, :details, :ip_address, :user_agent, :timestamp)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// ListByUser returns a user's audit entries, newest first.
func (r *AuditRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `SELECT id, user_id, action, resource_type, resource_id, details, ip_address, user_agent, timestamp FROM audit_logs WHERE user_id = $1 ORDER BY timestamp DESC LIMIT $2`
	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}
