package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/fly8-hq/fly8-api/internal/models"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
)

type studentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

type studentUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, phone, country *string) error
}

type studentApplicationRepository interface {
	Create(ctx context.Context, app *models.ServiceApplication) error
	FindByStudentAndService(ctx context.Context, studentID, serviceID string) (*models.ServiceApplication, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.ServiceApplication, error)
	ListNotes(ctx context.Context, applicationID string) ([]models.ApplicationNote, error)
}

type notifier interface {
	Notify(ctx context.Context, recipientID string, notifType models.NotificationType, title, message string, metadata json.RawMessage) (*models.Notification, error)
	NotifyRole(ctx context.Context, role models.UserRole, notifType models.NotificationType, title, message string, metadata json.RawMessage) error
}

// StudentService owns student onboarding, the student profile, and
// student-initiated service applications.
type StudentService struct {
	students     studentRepository
	users        studentUserRepository
	applications studentApplicationRepository
	notifier     notifier
	audit        auditWriter
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewStudentService constructs the service.
func NewStudentService(students studentRepository, users studentUserRepository, applications studentApplicationRepository, notifier notifier, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		students:     students,
		users:        users,
		applications: applications,
		notifier:     notifier,
		audit:        audit,
		validator:    validate,
		logger:       logger,
	}
}

// CompleteOnboarding creates the student case for a user, stores their
// profile details, and announces the registration to super admins. A second
// call for the same user is rejected as a duplicate.
func (s *StudentService) CompleteOnboarding(ctx context.Context, userID string, req models.OnboardingRequest, reqCtx *models.RequestContext) (*models.Student, error) {
	if _, err := s.students.FindByUserID(ctx, userID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "onboarding already completed")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing student")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	var phone, country *string
	if req.Phone != "" {
		phone = &req.Phone
	}
	if req.Country != "" {
		country = &req.Country
	}
	if phone != nil || country != nil {
		if err := s.users.UpdateProfile(ctx, userID, phone, country); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
		}
	}

	student := &models.Student{
		UserID:              userID,
		InterestedCountries: pq.StringArray(req.InterestedCountries),
		SelectedServices:    pq.StringArray(req.SelectedServices),
		OnboardingCompleted: true,
		Status:              models.StudentStatusActive,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	message := fmt.Sprintf("%s %s has completed onboarding", user.FirstName, user.LastName)
	if err := s.notifier.NotifyRole(ctx, models.RoleSuperAdmin, models.NotificationTypeGeneral, "New Student Registration", message,
		models.MarshalMetadata(models.GeneralMetadata{StudentID: student.ID})); err != nil {
		s.logger.Warn("failed to notify admins about onboarding", zap.Error(err))
	}

	s.audit.Record(ctx, userID, models.AuditActionStudentOnboarded, models.AuditResourceStudent, student.ID, nil, reqCtx)

	return student, nil
}

// Profile returns the student case owned by the given user.
func (s *StudentService) Profile(ctx context.Context, userID string) (*models.Student, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// ApplyForServices creates an application per requested service the student
// does not already hold. Already-held services are skipped silently; the
// check and the insert are separate statements, so a concurrent duplicate
// slips through rather than failing the request.
func (s *StudentService) ApplyForServices(ctx context.Context, userID string, req models.ApplyServicesRequest, reqCtx *models.RequestContext) ([]models.ServiceApplication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid apply payload")
	}

	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	created := make([]models.ServiceApplication, 0, len(req.ServiceIDs))
	for _, serviceID := range req.ServiceIDs {
		if serviceID == "" {
			continue
		}

		if _, err := s.applications.FindByStudentAndService(ctx, student.ID, serviceID); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing application")
		}

		app := &models.ServiceApplication{
			StudentID:         student.ID,
			ServiceID:         serviceID,
			Status:            models.ApplicationStatusNotStarted,
			AssignedCounselor: student.AssignedCounselor,
			AssignedAgent:     student.AssignedAgent,
		}
		if err := s.applications.Create(ctx, app); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create application")
		}
		created = append(created, *app)

		if err := s.notifier.NotifyRole(ctx, models.RoleSuperAdmin, models.NotificationTypeServiceApplication,
			"New Service Application", fmt.Sprintf("%s %s applied for service", user.FirstName, user.LastName),
			models.MarshalMetadata(models.ServiceApplicationMetadata{StudentID: student.ID, ServiceID: serviceID})); err != nil {
			s.logger.Warn("failed to notify admins about application", zap.Error(err))
		}
	}

	if len(created) > 0 {
		s.audit.Record(ctx, userID, models.AuditActionServiceApplied, models.AuditResourceStudent, student.ID,
			map[string]int{"applicationsCreated": len(created)}, reqCtx)
	}

	return created, nil
}

// MyApplications returns the student's applications with notes attached.
func (s *StudentService) MyApplications(ctx context.Context, userID string) ([]models.ServiceApplication, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	apps, err := s.applications.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	for i := range apps {
		notes, err := s.applications.ListNotes(ctx, apps[i].ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list application notes")
		}
		apps[i].Notes = notes
	}
	return apps, nil
}
