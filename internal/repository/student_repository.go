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

// StudentRepository provides persistence for student cases.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	if student.Status == "" {
		student.Status = models.StudentStatusActive
	}

	const query = `INSERT INTO students (id, user_id, interested_countries, selected_services, onboarding_completed, assigned_counselor, assigned_agent, commission_percentage, status, created_at, updated_at) VALUES (:id, :user_id, :interested_countries, :selected_services, :onboarding_completed, :assigned_counselor, :assigned_agent, :commission_percentage, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// FindByID returns a student by its identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, user_id, interested_countries, selected_services, onboarding_completed, assigned_counselor, assigned_agent, commission_percentage, status, created_at, updated_at FROM students WHERE id = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &student, nil
}

// FindByUserID returns the student owned by the given user.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	const query = `SELECT id, user_id, interested_countries, selected_services, onboarding_completed, assigned_counselor, assigned_agent, commission_percentage, status, created_at, updated_at FROM students WHERE user_id = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by user id: %w", err)
	}
	return &student, nil
}

// List returns every student, newest first.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT id, user_id, interested_countries, selected_services, onboarding_completed, assigned_counselor, assigned_agent, commission_percentage, status, created_at, updated_at FROM students ORDER BY created_at DESC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListByCounselor returns students assigned to the given counselor.
func (r *StudentRepository) ListByCounselor(ctx context.Context, counselorID string) ([]models.Student, error) {
	const query = `SELECT id, user_id, interested_countries, selected_services, onboarding_completed, assigned_counselor, assigned_agent, commission_percentage, status, created_at, updated_at FROM students WHERE assigned_counselor = $1 ORDER BY created_at DESC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, counselorID); err != nil {
		return nil, fmt.Errorf("list students by counselor: %w", err)
	}
	return students, nil
}

// ListByAgent returns students assigned to the given agent.
func (r *StudentRepository) ListByAgent(ctx context.Context, agentID string) ([]models.Student, error) {
	const query = `SELECT id, user_id, interested_countries, selected_services, onboarding_completed, assigned_counselor, assigned_agent, commission_percentage, status, created_at, updated_at FROM students WHERE assigned_agent = $1 ORDER BY created_at DESC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, agentID); err != nil {
		return nil, fmt.Errorf("list students by agent: %w", err)
	}
	return students, nil
}

// AssignCounselor sets the counselor on a student and returns the updated
// record. sql.ErrNoRows surfaces when the student does not exist.
func (r *StudentRepository) AssignCounselor(ctx context.Context, studentID, counselorID string) (*models.Student, error) {
	const query = `UPDATE students SET assigned_counselor = $2, updated_at = $3 WHERE id = $1 RETURNING id, user_id, interested_countries, selected_services, onboarding_completed, assigned_counselor, assigned_agent, commission_percentage, status, created_at, updated_at`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, studentID, counselorID, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("assign counselor: %w", err)
	}
	return &student, nil
}

// AssignAgent sets the agent and commission percentage on a student and
// returns the updated record.
func (r *StudentRepository) AssignAgent(ctx context.Context, studentID, agentID string, percentage float64) (*models.Student, error) {
	const query = `UPDATE students SET assigned_agent = $2, commission_percentage = $3, updated_at = $4 WHERE id = $1 RETURNING id, user_id, interested_countries, selected_services, onboarding_completed, assigned_counselor, assigned_agent, commission_percentage, status, created_at, updated_at`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, studentID, agentID, percentage, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("assign agent: %w", err)
	}
	return &student, nil
}

// Count returns the total number of students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM students`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}
