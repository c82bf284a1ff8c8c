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

// ApplicationRepository provides persistence for service applications and
// their notes.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a new service application.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.ServiceApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = models.ApplicationStatusNotStarted
	}

	const query = `INSERT INTO service_applications (id, student_id, service_id, status, assigned_counselor, assigned_agent, completed_at, created_at, updated_at) VALUES (:id, :student_id, :service_id, :status, :assigned_counselor, :assigned_agent, :completed_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// FindByID returns an application by its identifier.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.ServiceApplication, error) {
	const query = `SELECT id, student_id, service_id, status, assigned_counselor, assigned_agent, completed_at, created_at, updated_at FROM service_applications WHERE id = $1 LIMIT 1`
	var app models.ServiceApplication
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find application by id: %w", err)
	}
	return &app, nil
}

// FindByStudentAndService returns the application for a (student, service)
// pair, or sql.ErrNoRows when none exists.
func (r *ApplicationRepository) FindByStudentAndService(ctx context.Context, studentID, serviceID string) (*models.ServiceApplication, error) {
	const query = `SELECT id, student_id, service_id, status, assigned_counselor, assigned_agent, completed_at, created_at, updated_at FROM service_applications WHERE student_id = $1 AND service_id = $2 LIMIT 1`
	var app models.ServiceApplication
	if err := r.db.GetContext(ctx, &app, query, studentID, serviceID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find application by student and service: %w", err)
	}
	return &app, nil
}

// ListByStudent returns every application owned by a student.
func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID string) ([]models.ServiceApplication, error) {
	const query = `SELECT id, student_id, service_id, status, assigned_counselor, assigned_agent, completed_at, created_at, updated_at FROM service_applications WHERE student_id = $1 ORDER BY created_at ASC`
	var apps []models.ServiceApplication
	if err := r.db.SelectContext(ctx, &apps, query, studentID); err != nil {
		return nil, fmt.Errorf("list applications by student: %w", err)
	}
	return apps, nil
}

// ListByStudentAndAgent returns a student's applications scoped to an agent.
func (r *ApplicationRepository) ListByStudentAndAgent(ctx context.Context, studentID, agentID string) ([]models.ServiceApplication, error) {
	const query = `SELECT id, student_id, service_id, status, assigned_counselor, assigned_agent, completed_at, created_at, updated_at FROM service_applications WHERE student_id = $1 AND assigned_agent = $2 ORDER BY created_at ASC`
	var apps []models.ServiceApplication
	if err := r.db.SelectContext(ctx, &apps, query, studentID, agentID); err != nil {
		return nil, fmt.Errorf("list applications by student and agent: %w", err)
	}
	return apps, nil
}

// CascadeCounselor sets the counselor on every application owned by the
// student, regardless of status.
func (r *ApplicationRepository) CascadeCounselor(ctx context.Context, studentID, counselorID string) error {
	const query = `UPDATE service_applications SET assigned_counselor = $2, updated_at = $3 WHERE student_id = $1`
	if _, err := r.db.ExecContext(ctx, query, studentID, counselorID, time.Now().UTC()); err != nil {
		return fmt.Errorf("cascade counselor assignment: %w", err)
	}
	return nil
}

// CascadeAgent sets the agent on every application owned by the student,
// regardless of status.
func (r *ApplicationRepository) CascadeAgent(ctx context.Context, studentID, agentID string) error {
	const query = `UPDATE service_applications SET assigned_agent = $2, updated_at = $3 WHERE student_id = $1`
	if _, err := r.db.ExecContext(ctx, query, studentID, agentID, time.Now().UTC()); err != nil {
		return fmt.Errorf("cascade agent assignment: %w", err)
	}
	return nil
}

// Update persists status and completion changes on an application.
func (r *ApplicationRepository) Update(ctx context.Context, app *models.ServiceApplication) error {
	app.UpdatedAt = time.Now().UTC()
	const query = `UPDATE service_applications SET status = :status, completed_at = :completed_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	return nil
}

// AddNote appends a note to an application. Ordering is insertion order.
func (r *ApplicationRepository) AddNote(ctx context.Context, note *models.ApplicationNote) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.AddedAt.IsZero() {
		note.AddedAt = time.Now().UTC()
	}
	const query = `INSERT INTO application_notes (id, application_id, text, added_by, added_at) VALUES (:id, :application_id, :text, :added_by, :added_at)`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("add application note: %w", err)
	}
	return nil
}

// ListNotes returns an application's notes in insertion order.
func (r *ApplicationRepository) ListNotes(ctx context.Context, applicationID string) ([]models.ApplicationNote, error) {
	const query = `SELECT id, application_id, text, added_by, added_at FROM application_notes WHERE application_id = $1 ORDER BY added_at ASC`
	var notes []models.ApplicationNote
	if err := r.db.SelectContext(ctx, &notes, query, applicationID); err != nil {
		return nil, fmt.Errorf("list application notes: %w", err)
	}
	return notes, nil
}

// CountByStatuses returns how many applications hold any of the statuses.
func (r *ApplicationRepository) CountByStatuses(ctx context.Context, statuses ...models.ApplicationStatus) (int, error) {
	query, args, err := sqlx.In(`SELECT COUNT(*) FROM service_applications WHERE status IN (?)`, statuses)
	if err != nil {
		return 0, fmt.Errorf("build status count query: %w", err)
	}
	query = r.db.Rebind(query)
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count applications by status: %w", err)
	}
	return total, nil
}
