package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fly8-hq/fly8-api/internal/models"
)

// CommissionRepository provides persistence for agent commissions.
type CommissionRepository struct {
	db *sqlx.DB
}

// NewCommissionRepository creates the repository.
func NewCommissionRepository(db *sqlx.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

// Create inserts a new commission in pending state.
func (r *CommissionRepository) Create(ctx context.Context, commission *models.Commission) error {
	if commission.ID == "" {
		commission.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if commission.CreatedAt.IsZero() {
		commission.CreatedAt = now
	}
	commission.UpdatedAt = now
	if commission.Status == "" {
		commission.Status = models.CommissionStatusPending
	}

	const query = `INSERT INTO commissions (id, agent_id, student_id, amount, percentage, status, paid_at, created_at, updated_at) VALUES (:id, :agent_id, :student_id, :amount, :percentage, :status, :paid_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, commission); err != nil {
		return fmt.Errorf("create commission: %w", err)
	}
	return nil
}

// FindByID returns a commission by its identifier.
func (r *CommissionRepository) FindByID(ctx context.Context, id string) (*models.Commission, error) {
	const query = `SELECT id, agent_id, student_id, amount, percentage, status, paid_at, created_at, updated_at FROM commissions WHERE id = $1 LIMIT 1`
	var commission models.Commission
	if err := r.db.GetContext(ctx, &commission, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find commission by id: %w", err)
	}
	return &commission, nil
}

// List returns every commission, newest first.
func (r *CommissionRepository) List(ctx context.Context) ([]models.Commission, error) {
	const query = `SELECT id, agent_id, student_id, amount, percentage, status, paid_at, created_at, updated_at FROM commissions ORDER BY created_at DESC`
	var commissions []models.Commission
	if err := r.db.SelectContext(ctx, &commissions, query); err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}
	return commissions, nil
}

// ListByAgent returns commissions owned by the given agent, newest first.
func (r *CommissionRepository) ListByAgent(ctx context.Context, agentID string) ([]models.Commission, error) {
	const query = `SELECT id, agent_id, student_id, amount, percentage, status, paid_at, created_at, updated_at FROM commissions WHERE agent_id = $1 ORDER BY created_at DESC`
	var commissions []models.Commission
	if err := r.db.SelectContext(ctx, &commissions, query, agentID); err != nil {
		return nil, fmt.Errorf("list commissions by agent: %w", err)
	}
	return commissions, nil
}

// UpdateStatus writes the commission status unconditionally.
func (r *CommissionRepository) UpdateStatus(ctx context.Context, id string, status models.CommissionStatus) error {
	const query = `UPDATE commissions SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update commission status: %w", err)
	}
	return nil
}

// MarkPaid writes the paid status and stamps paid_at.
func (r *CommissionRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	const query = `UPDATE commissions SET status = $2, paid_at = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.CommissionStatusPaid, paidAt, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark commission paid: %w", err)
	}
	return nil
}
