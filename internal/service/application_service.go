package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fly8-hq/fly8-api/internal/models"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
)

type applicationRepository interface {
	FindByID(ctx context.Context, id string) (*models.ServiceApplication, error)
	Update(ctx context.Context, app *models.ServiceApplication) error
	AddNote(ctx context.Context, note *models.ApplicationNote) error
	ListNotes(ctx context.Context, applicationID string) ([]models.ApplicationNote, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.ServiceApplication, error)
	ListByStudentAndAgent(ctx context.Context, studentID, agentID string) ([]models.ServiceApplication, error)
}

type caseloadStudentRepository interface {
	ListByCounselor(ctx context.Context, counselorID string) ([]models.Student, error)
	ListByAgent(ctx context.Context, agentID string) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type caseloadUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ApplicationService owns counselor-side application updates and caseload
// views.
type ApplicationService struct {
	applications applicationRepository
	students     caseloadStudentRepository
	users        caseloadUserRepository
	notifier     notifier
	audit        auditWriter
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewApplicationService constructs the service.
func NewApplicationService(applications applicationRepository, students caseloadStudentRepository, users caseloadUserRepository, notifier notifier, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *ApplicationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		applications: applications,
		students:     students,
		users:        users,
		notifier:     notifier,
		audit:        audit,
		validator:    validate,
		logger:       logger,
	}
}

// UpdateApplication overwrites the status and/or appends a note. Any status
// may replace any status; moving to completed stamps completedAt with the
// current time, even when the application was already completed. The student
// owner receives a status_update notification when the status changes.
func (s *ApplicationService) UpdateApplication(ctx context.Context, actorID, applicationID string, req models.UpdateApplicationRequest, reqCtx *models.RequestContext) (*models.ServiceApplication, error) {
	app, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}

	statusChanged := false
	if req.Status != "" {
		status := models.ApplicationStatus(req.Status)
		if !models.ValidApplicationStatus(status) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown application status")
		}
		app.Status = status
		statusChanged = true
		if status == models.ApplicationStatusCompleted {
			now := time.Now().UTC()
			app.CompletedAt = &now
		}
	}

	if statusChanged {
		if err := s.applications.Update(ctx, app); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application")
		}
		s.audit.Record(ctx, actorID, models.AuditActionAppStatusUpdated, models.AuditResourceApplication, app.ID,
			map[string]string{"status": string(app.Status)}, reqCtx)
		s.notifyStatusChange(ctx, app)
	}

	if req.Note != "" {
		note := &models.ApplicationNote{
			ApplicationID: app.ID,
			Text:          req.Note,
			AddedBy:       actorID,
		}
		if err := s.applications.AddNote(ctx, note); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add note")
		}
		s.audit.Record(ctx, actorID, models.AuditActionNoteAdded, models.AuditResourceApplication, app.ID, nil, reqCtx)
	}

	notes, err := s.applications.ListNotes(ctx, app.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notes")
	}
	app.Notes = notes

	return app, nil
}

func (s *ApplicationService) notifyStatusChange(ctx context.Context, app *models.ServiceApplication) {
	student, err := s.students.FindByID(ctx, app.StudentID)
	if err != nil {
		s.logger.Warn("failed to resolve student for status notification", zap.Error(err))
		return
	}
	if _, err := s.notifier.Notify(ctx, student.UserID, models.NotificationTypeStatusUpdate,
		"Application Status Updated", "Your application status changed to "+string(app.Status),
		models.MarshalMetadata(models.ServiceApplicationMetadata{StudentID: student.ID, ServiceID: app.ServiceID})); err != nil {
		s.logger.Warn("failed to notify student about status change", zap.Error(err))
	}
}

// MyStudents returns the counselor's assigned students, each denormalised
// with the owning user and the student's applications. Assembled per record
// rather than in one join.
func (s *ApplicationService) MyStudents(ctx context.Context, counselorID string) ([]models.StudentDetail, error) {
	students, err := s.students.ListByCounselor(ctx, counselorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	details := make([]models.StudentDetail, 0, len(students))
	for _, student := range students {
		detail := models.StudentDetail{Student: student}

		if user, err := s.users.FindByID(ctx, student.UserID); err == nil {
			detail.User = user
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student user")
		}

		apps, err := s.applications.ListByStudent(ctx, student.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student applications")
		}
		detail.Applications = apps

		details = append(details, detail)
	}

	return details, nil
}

// AgentStudents returns the agent's assigned students with the applications
// scoped to that agent.
func (s *ApplicationService) AgentStudents(ctx context.Context, agentID string) ([]models.StudentDetail, error) {
	students, err := s.students.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	details := make([]models.StudentDetail, 0, len(students))
	for _, student := range students {
		detail := models.StudentDetail{Student: student}

		if user, err := s.users.FindByID(ctx, student.UserID); err == nil {
			detail.User = user
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student user")
		}

		apps, err := s.applications.ListByStudentAndAgent(ctx, student.ID, agentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student applications")
		}
		detail.Applications = apps

		details = append(details, detail)
	}

	return details, nil
}
