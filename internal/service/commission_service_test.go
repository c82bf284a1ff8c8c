package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fly8-hq/fly8-api/internal/models"
	"github.com/fly8-hq/fly8-api/internal/realtime"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
)

type fakeCommissionRepo struct {
	commissions map[string]*models.Commission
	created     []*models.Commission
	statusCalls []models.CommissionStatus
	paidCalls   []string
}

func newFakeCommissionRepo(commissions ...*models.Commission) *fakeCommissionRepo {
	repo := &fakeCommissionRepo{commissions: make(map[string]*models.Commission)}
	for _, c := range commissions {
		repo.commissions[c.ID] = c
	}
	return repo
}

func (f *fakeCommissionRepo) Create(_ context.Context, commission *models.Commission) error {
	if commission.ID == "" {
		commission.ID = "c-created"
	}
	if commission.Status == "" {
		commission.Status = models.CommissionStatusPending
	}
	f.commissions[commission.ID] = commission
	f.created = append(f.created, commission)
	return nil
}

func (f *fakeCommissionRepo) FindByID(_ context.Context, id string) (*models.Commission, error) {
	commission, ok := f.commissions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *commission
	return &copied, nil
}

func (f *fakeCommissionRepo) List(_ context.Context) ([]models.Commission, error) {
	var out []models.Commission
	for _, c := range f.commissions {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCommissionRepo) ListByAgent(_ context.Context, agentID string) ([]models.Commission, error) {
	var out []models.Commission
	for _, c := range f.commissions {
		if c.AgentID == agentID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCommissionRepo) UpdateStatus(_ context.Context, id string, status models.CommissionStatus) error {
	f.statusCalls = append(f.statusCalls, status)
	f.commissions[id].Status = status
	return nil
}

func (f *fakeCommissionRepo) MarkPaid(_ context.Context, id string, paidAt time.Time) error {
	f.paidCalls = append(f.paidCalls, id)
	f.commissions[id].Status = models.CommissionStatusPaid
	f.commissions[id].PaidAt = &paidAt
	return nil
}

func TestCommissionServiceCreateBooksPending(t *testing.T) {
	repo := newFakeCommissionRepo()
	notifier := &fakeNotifier{}
	audit := &fakeAudit{}
	svc := NewCommissionService(repo, notifier, notifier, audit, nil, nil)

	commission, err := svc.Create(context.Background(), "admin-1", models.CreateCommissionRequest{
		AgentID:    "agent-1",
		StudentID:  "student-1",
		Amount:     250,
		Percentage: 10,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.CommissionStatusPending, commission.Status)
	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, "agent-1", notifier.notifications[0].RecipientID)
	assert.Equal(t, models.NotificationTypeCommission, notifier.notifications[0].Type)
	assert.Equal(t, []models.AuditAction{models.AuditActionPaymentInitiated}, audit.actions())
}

func TestCommissionServicePayoutRequiresApproval(t *testing.T) {
	repo := newFakeCommissionRepo(&models.Commission{ID: "c-1", AgentID: "agent-1", Amount: 100, Status: models.CommissionStatusPending})
	notifier := &fakeNotifier{}
	svc := NewCommissionService(repo, notifier, notifier, &fakeAudit{}, nil, nil)

	_, err := svc.Payout(context.Background(), "admin-1", "c-1", nil)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
	assert.Equal(t, "Commission must be approved first", appErr.Message)
	assert.Empty(t, repo.paidCalls)
	assert.Empty(t, notifier.notifications)
}

func TestCommissionServicePayoutStampsPaidAt(t *testing.T) {
	repo := newFakeCommissionRepo(&models.Commission{ID: "c-1", AgentID: "agent-1", Amount: 100, Status: models.CommissionStatusApproved})
	notifier := &fakeNotifier{}
	audit := &fakeAudit{}
	svc := NewCommissionService(repo, notifier, notifier, audit, nil, nil)

	commission, err := svc.Payout(context.Background(), "admin-1", "c-1", nil)
	require.NoError(t, err)

	assert.Equal(t, models.CommissionStatusPaid, commission.Status)
	require.NotNil(t, commission.PaidAt)
	assert.Equal(t, []models.AuditAction{models.AuditActionCommissionPaid}, audit.actions())
	require.Len(t, notifier.notifications, 1)
	require.Len(t, notifier.echoes, 1)
	assert.Equal(t, realtime.EventCommissionPaid, notifier.echoes[0].Name)
}

func TestCommissionServiceApproveDoesNotCheckCurrentState(t *testing.T) {
	repo := newFakeCommissionRepo(&models.Commission{ID: "c-1", AgentID: "agent-1", Amount: 100, Status: models.CommissionStatusPaid})
	notifier := &fakeNotifier{}
	audit := &fakeAudit{}
	svc := NewCommissionService(repo, notifier, notifier, audit, nil, nil)

	commission, err := svc.Approve(context.Background(), "admin-1", "c-1", nil)
	require.NoError(t, err)

	assert.Equal(t, models.CommissionStatusApproved, commission.Status)
	assert.Equal(t, []models.CommissionStatus{models.CommissionStatusApproved}, repo.statusCalls)
	assert.Equal(t, []models.AuditAction{models.AuditActionCommissionApproved}, audit.actions())
}

func TestCommissionServiceApproveThenPayoutLeavesTwoAuditEntries(t *testing.T) {
	repo := newFakeCommissionRepo(&models.Commission{ID: "c-1", AgentID: "agent-1", Amount: 100, Status: models.CommissionStatusPending})
	notifier := &fakeNotifier{}
	audit := &fakeAudit{}
	svc := NewCommissionService(repo, notifier, notifier, audit, nil, nil)

	_, err := svc.Approve(context.Background(), "admin-1", "c-1", nil)
	require.NoError(t, err)
	_, err = svc.Payout(context.Background(), "admin-1", "c-1", nil)
	require.NoError(t, err)

	assert.Equal(t, []models.AuditAction{models.AuditActionCommissionApproved, models.AuditActionCommissionPaid}, audit.actions())
}

func TestCommissionServiceListForAgentSummaries(t *testing.T) {
	repo := newFakeCommissionRepo(
		&models.Commission{ID: "c-1", AgentID: "agent-1", Amount: 100, Status: models.CommissionStatusPending},
		&models.Commission{ID: "c-2", AgentID: "agent-1", Amount: 200, Status: models.CommissionStatusApproved},
		&models.Commission{ID: "c-3", AgentID: "agent-1", Amount: 300, Status: models.CommissionStatusPaid},
		&models.Commission{ID: "c-4", AgentID: "agent-2", Amount: 999, Status: models.CommissionStatusPaid},
	)
	svc := NewCommissionService(repo, &fakeNotifier{}, nil, &fakeAudit{}, nil, nil)

	list, err := svc.ListForAgent(context.Background(), "agent-1")
	require.NoError(t, err)

	assert.Len(t, list.Commissions, 3)
	assert.Equal(t, 100.0, list.Summary.TotalPending)
	assert.Equal(t, 200.0, list.Summary.TotalApproved)
	assert.Equal(t, 300.0, list.Summary.TotalPaid)
	assert.Equal(t, 300.0, list.Summary.LifetimeEarnings)
}

func TestCommissionServiceExportStatementCSV(t *testing.T) {
	repo := newFakeCommissionRepo(
		&models.Commission{ID: "c-1", AgentID: "agent-1", StudentID: "student-1", Amount: 100, Percentage: 10, Status: models.CommissionStatusPending},
	)
	svc := NewCommissionService(repo, &fakeNotifier{}, nil, &fakeAudit{}, nil, nil)

	payload, contentType, err := svc.ExportStatement(context.Background(), "agent-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.True(t, strings.Contains(string(payload), "c-1"))

	_, _, err = svc.ExportStatement(context.Background(), "agent-1", "xlsx")
	require.Error(t, err)
}
