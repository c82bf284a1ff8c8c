package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fly8-hq/fly8-api/internal/models"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
)

const metricsCacheKey = "dashboard:admin:metrics"

type adminUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	CountByRole(ctx context.Context, role models.UserRole) (int, error)
}

type adminStudentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	Count(ctx context.Context) (int, error)
}

type adminApplicationRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.ServiceApplication, error)
	CountByStatuses(ctx context.Context, statuses ...models.ApplicationStatus) (int, error)
}

type metricsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// AdminService serves the super admin surface: dashboard metrics, rosters,
// and account provisioning for counselors and agents.
type AdminService struct {
	users        adminUserRepository
	students     adminStudentRepository
	applications adminApplicationRepository
	cache        metricsCache
	cacheTTL     time.Duration
	metrics      *MetricsService
	audit        auditWriter
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(users adminUserRepository, students adminStudentRepository, applications adminApplicationRepository, cache metricsCache, cacheTTL time.Duration, metrics *MetricsService, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		users:        users,
		students:     students,
		applications: applications,
		cache:        cache,
		cacheTTL:     cacheTTL,
		metrics:      metrics,
		audit:        audit,
		validator:    validate,
		logger:       logger,
	}
}

// Metrics returns the dashboard snapshot, served from Redis when fresh.
func (s *AdminService) Metrics(ctx context.Context) (*models.AdminMetrics, error) {
	var cached models.AdminMetrics
	if s.cache != nil {
		if err := s.cache.Get(ctx, metricsCacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		} else if errors.Is(err, appErrors.ErrCacheMiss) {
			s.metrics.RecordCacheOperation(false)
		} else {
			s.logger.Warn("metrics cache read failed", zap.Error(err))
		}
	}

	metrics := &models.AdminMetrics{}
	var err error

	if metrics.TotalStudents, err = s.students.Count(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	if metrics.TotalCounselors, err = s.users.CountByRole(ctx, models.RoleCounselor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count counselors")
	}
	if metrics.TotalAgents, err = s.users.CountByRole(ctx, models.RoleAgent); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count agents")
	}
	if metrics.ActiveApplications, err = s.applications.CountByStatuses(ctx, models.ApplicationStatusNotStarted, models.ApplicationStatusInProgress); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count active applications")
	}
	if metrics.CompletedApplications, err = s.applications.CountByStatuses(ctx, models.ApplicationStatusCompleted); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count completed applications")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, metricsCacheKey, metrics, s.cacheTTL); err != nil {
			s.logger.Warn("metrics cache write failed", zap.Error(err))
		}
	}

	return metrics, nil
}

// Students returns every student, denormalised with user and applications.
func (s *AdminService) Students(ctx context.Context) ([]models.StudentDetail, error) {
	students, err := s.students.List(ctx)
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

// Counselors lists every counselor account.
func (s *AdminService) Counselors(ctx context.Context) ([]models.User, error) {
	users, err := s.users.FindByRole(ctx, models.RoleCounselor)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list counselors")
	}
	return users, nil
}

// Agents lists every agent account.
func (s *AdminService) Agents(ctx context.Context) ([]models.User, error) {
	users, err := s.users.FindByRole(ctx, models.RoleAgent)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list agents")
	}
	return users, nil
}

// CreateUser provisions a counselor or agent account.
func (s *AdminService) CreateUser(ctx context.Context, actorID string, req models.CreateUserRequest, reqCtx *models.RequestContext) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	role := models.UserRole(req.Role)
	if role != models.RoleCounselor && role != models.RoleAgent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "role must be counselor or agent")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}
	if req.Country != "" {
		user.Country = &req.Country
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.audit.Record(ctx, actorID, models.AuditActionUserCreated, models.AuditResourceUser, user.ID,
		map[string]string{"role": string(role)}, reqCtx)

	return user, nil
}
