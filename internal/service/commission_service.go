package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fly8-hq/fly8-api/internal/models"
	"github.com/fly8-hq/fly8-api/internal/realtime"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
	"github.com/fly8-hq/fly8-api/pkg/export"
)

type commissionRepository interface {
	Create(ctx context.Context, commission *models.Commission) error
	FindByID(ctx context.Context, id string) (*models.Commission, error)
	List(ctx context.Context) ([]models.Commission, error)
	ListByAgent(ctx context.Context, agentID string) ([]models.Commission, error)
	UpdateStatus(ctx context.Context, id string, status models.CommissionStatus) error
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
}

type eventEcho interface {
	Echo(recipientID, event string, payload interface{})
}

// CommissionList pairs a commission set with its derived totals.
type CommissionList struct {
	Commissions []models.Commission      `json:"commissions"`
	Summary     models.CommissionSummary `json:"summary"`
}

// CommissionService owns the commission bookkeeping lifecycle: pending at
// creation, approved by an admin, then paid out. Only the payout checks the
// current state; approval overwrites whatever state is there. No funds move
// here.
type CommissionService struct {
	commissions commissionRepository
	notifier    notifier
	echo        eventEcho
	audit       auditWriter
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCommissionService constructs the service.
func NewCommissionService(commissions commissionRepository, notifier notifier, echo eventEcho, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *CommissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommissionService{
		commissions: commissions,
		notifier:    notifier,
		echo:        echo,
		audit:       audit,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		validator:   validate,
		logger:      logger,
	}
}

// Create books a pending commission for an agent and notifies them.
func (s *CommissionService) Create(ctx context.Context, actorID string, req models.CreateCommissionRequest, reqCtx *models.RequestContext) (*models.Commission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid commission payload")
	}

	commission := &models.Commission{
		AgentID:    req.AgentID,
		StudentID:  req.StudentID,
		Amount:     req.Amount,
		Percentage: req.Percentage,
		Status:     models.CommissionStatusPending,
	}
	if err := s.commissions.Create(ctx, commission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create commission")
	}

	if _, err := s.notifier.Notify(ctx, commission.AgentID, models.NotificationTypeCommission,
		"New Commission", fmt.Sprintf("A commission of %.2f has been booked for you", commission.Amount),
		models.MarshalMetadata(models.CommissionMetadata{CommissionID: commission.ID, Amount: commission.Amount})); err != nil {
		s.logger.Warn("failed to notify agent about commission", zap.Error(err))
	}

	s.audit.Record(ctx, actorID, models.AuditActionPaymentInitiated, models.AuditResourceCommission, commission.ID,
		map[string]interface{}{"amount": commission.Amount, "agentId": commission.AgentID}, reqCtx)

	return commission, nil
}

// Approve writes status=approved. The current state is not checked, so an
// already-paid commission can be pulled back to approved.
func (s *CommissionService) Approve(ctx context.Context, actorID, commissionID string, reqCtx *models.RequestContext) (*models.Commission, error) {
	commission, err := s.commissions.FindByID(ctx, commissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "commission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load commission")
	}

	if err := s.commissions.UpdateStatus(ctx, commission.ID, models.CommissionStatusApproved); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve commission")
	}
	commission.Status = models.CommissionStatusApproved

	s.audit.Record(ctx, actorID, models.AuditActionCommissionApproved, models.AuditResourceCommission, commission.ID,
		map[string]interface{}{"amount": commission.Amount, "agentId": commission.AgentID}, reqCtx)

	if _, err := s.notifier.Notify(ctx, commission.AgentID, models.NotificationTypeCommission,
		"Commission Approved", fmt.Sprintf("Your commission of %.2f has been approved", commission.Amount),
		models.MarshalMetadata(models.CommissionMetadata{CommissionID: commission.ID, Amount: commission.Amount})); err != nil {
		s.logger.Warn("failed to notify agent about approval", zap.Error(err))
	}

	return commission, nil
}

// Payout marks an approved commission paid and stamps paidAt. Any other
// current state fails the transition.
func (s *CommissionService) Payout(ctx context.Context, actorID, commissionID string, reqCtx *models.RequestContext) (*models.Commission, error) {
	commission, err := s.commissions.FindByID(ctx, commissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "commission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load commission")
	}

	if commission.Status != models.CommissionStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "Commission must be approved first")
	}

	paidAt := time.Now().UTC()
	if err := s.commissions.MarkPaid(ctx, commission.ID, paidAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark commission paid")
	}
	commission.Status = models.CommissionStatusPaid
	commission.PaidAt = &paidAt

	s.audit.Record(ctx, actorID, models.AuditActionCommissionPaid, models.AuditResourceCommission, commission.ID,
		map[string]interface{}{"amount": commission.Amount, "agentId": commission.AgentID}, reqCtx)

	if _, err := s.notifier.Notify(ctx, commission.AgentID, models.NotificationTypeCommission,
		"Commission Paid", fmt.Sprintf("Your commission of %.2f has been paid", commission.Amount),
		models.MarshalMetadata(models.CommissionMetadata{CommissionID: commission.ID, Amount: commission.Amount})); err != nil {
		s.logger.Warn("failed to notify agent about payout", zap.Error(err))
	}
	if s.echo != nil {
		s.echo.Echo(commission.AgentID, realtime.EventCommissionPaid, commission)
	}

	return commission, nil
}

// ListForAdmin returns all commissions with derived totals.
func (s *CommissionService) ListForAdmin(ctx context.Context) (*CommissionList, error) {
	commissions, err := s.commissions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list commissions")
	}
	return &CommissionList{Commissions: commissions, Summary: models.Summarize(commissions)}, nil
}

// ListForAgent returns the agent's own commissions with derived totals.
func (s *CommissionService) ListForAgent(ctx context.Context, agentID string) (*CommissionList, error) {
	commissions, err := s.commissions.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list commissions")
	}
	return &CommissionList{Commissions: commissions, Summary: models.Summarize(commissions)}, nil
}

// ExportStatement renders the agent's commissions as a CSV or PDF statement.
func (s *CommissionService) ExportStatement(ctx context.Context, agentID, format string) ([]byte, string, error) {
	list, err := s.ListForAgent(ctx, agentID)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"Commission ID", "Student ID", "Amount", "Percentage", "Status", "Paid At", "Created At"},
	}
	for _, c := range list.Commissions {
		paidAt := ""
		if c.PaidAt != nil {
			paidAt = c.PaidAt.Format(time.RFC3339)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Commission ID": c.ID,
			"Student ID":    c.StudentID,
			"Amount":        fmt.Sprintf("%.2f", c.Amount),
			"Percentage":    fmt.Sprintf("%g", c.Percentage),
			"Status":        string(c.Status),
			"Paid At":       paidAt,
			"Created At":    c.CreatedAt.Format(time.RFC3339),
		})
	}

	switch strings.ToLower(format) {
	case "csv", "":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv statement")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(dataset, "Commission Statement")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf statement")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
