package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fly8-hq/fly8-api/internal/models"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
)

type assignmentStudentRepository interface {
	AssignCounselor(ctx context.Context, studentID, counselorID string) (*models.Student, error)
	AssignAgent(ctx context.Context, studentID, agentID string, percentage float64) (*models.Student, error)
}

type assignmentApplicationRepository interface {
	CascadeCounselor(ctx context.Context, studentID, counselorID string) error
	CascadeAgent(ctx context.Context, studentID, agentID string) error
}

// AssignmentService binds counselors and agents to student cases. Every
// assignment cascades onto all of the student's applications, regardless of
// their status; the student and application writes are sequential and not
// wrapped in a transaction, so concurrent assigners resolve last-write-wins.
type AssignmentService struct {
	students          assignmentStudentRepository
	applications      assignmentApplicationRepository
	notifier          notifier
	audit             auditWriter
	defaultPercentage float64
	validator         *validator.Validate
	logger            *zap.Logger
}

// NewAssignmentService constructs the service.
func NewAssignmentService(students assignmentStudentRepository, applications assignmentApplicationRepository, notifier notifier, audit auditWriter, defaultPercentage float64, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if defaultPercentage <= 0 {
		defaultPercentage = 10
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		students:          students,
		applications:      applications,
		notifier:          notifier,
		audit:             audit,
		defaultPercentage: defaultPercentage,
		validator:         validate,
		logger:            logger,
	}
}

// AssignCounselor sets the counselor on a student and every one of the
// student's applications, then notifies the counselor. The student is not
// notified.
func (s *AssignmentService) AssignCounselor(ctx context.Context, actorID, studentID string, req models.AssignCounselorRequest, reqCtx *models.RequestContext) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	student, err := s.students.AssignCounselor(ctx, studentID, req.CounselorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign counselor")
	}

	if err := s.applications.CascadeCounselor(ctx, studentID, req.CounselorID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cascade counselor assignment")
	}

	if _, err := s.notifier.Notify(ctx, req.CounselorID, models.NotificationTypeAssignment,
		"New Student Assigned", "A new student has been assigned to you",
		models.MarshalMetadata(models.AssignmentMetadata{StudentID: studentID})); err != nil {
		s.logger.Warn("failed to notify counselor about assignment", zap.Error(err))
	}

	s.audit.Record(ctx, actorID, models.AuditActionCounselorAssigned, models.AuditResourceStudent, studentID,
		map[string]string{"counselorId": req.CounselorID}, reqCtx)

	return student, nil
}

// AssignAgent sets the agent and commission percentage on a student and
// cascades the agent onto every application. A zero or omitted percentage
// falls back to the configured default.
func (s *AssignmentService) AssignAgent(ctx context.Context, actorID, studentID string, req models.AssignAgentRequest, reqCtx *models.RequestContext) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	percentage := req.CommissionPercentage
	if percentage <= 0 {
		percentage = s.defaultPercentage
	}

	student, err := s.students.AssignAgent(ctx, studentID, req.AgentID, percentage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign agent")
	}

	if err := s.applications.CascadeAgent(ctx, studentID, req.AgentID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cascade agent assignment")
	}

	message := fmt.Sprintf("A new student has been assigned to you with %g%% commission", percentage)
	if _, err := s.notifier.Notify(ctx, req.AgentID, models.NotificationTypeAssignment,
		"New Student Assigned", message,
		models.MarshalMetadata(models.AssignmentMetadata{StudentID: studentID})); err != nil {
		s.logger.Warn("failed to notify agent about assignment", zap.Error(err))
	}

	s.audit.Record(ctx, actorID, models.AuditActionAgentAssigned, models.AuditResourceStudent, studentID,
		map[string]interface{}{"agentId": req.AgentID, "commissionPercentage": percentage}, reqCtx)

	return student, nil
}
