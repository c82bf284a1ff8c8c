package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fly8-hq/fly8-api/internal/models"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
)

type assignCall struct {
	StudentID  string
	AssigneeID string
	Percentage float64
}

type fakeAssignmentStudents struct {
	missing        bool
	counselorCalls []assignCall
	agentCalls     []assignCall
}

func (f *fakeAssignmentStudents) AssignCounselor(_ context.Context, studentID, counselorID string) (*models.Student, error) {
	if f.missing {
		return nil, sql.ErrNoRows
	}
	f.counselorCalls = append(f.counselorCalls, assignCall{StudentID: studentID, AssigneeID: counselorID})
	return &models.Student{ID: studentID, AssignedCounselor: &counselorID}, nil
}

func (f *fakeAssignmentStudents) AssignAgent(_ context.Context, studentID, agentID string, percentage float64) (*models.Student, error) {
	if f.missing {
		return nil, sql.ErrNoRows
	}
	f.agentCalls = append(f.agentCalls, assignCall{StudentID: studentID, AssigneeID: agentID, Percentage: percentage})
	return &models.Student{ID: studentID, AssignedAgent: &agentID, CommissionPercentage: percentage}, nil
}

type fakeCascades struct {
	counselorCalls []assignCall
	agentCalls     []assignCall
}

func (f *fakeCascades) CascadeCounselor(_ context.Context, studentID, counselorID string) error {
	f.counselorCalls = append(f.counselorCalls, assignCall{StudentID: studentID, AssigneeID: counselorID})
	return nil
}

func (f *fakeCascades) CascadeAgent(_ context.Context, studentID, agentID string) error {
	f.agentCalls = append(f.agentCalls, assignCall{StudentID: studentID, AssigneeID: agentID})
	return nil
}

func TestAssignCounselorCascadesAndNotifies(t *testing.T) {
	students := &fakeAssignmentStudents{}
	cascades := &fakeCascades{}
	notifier := &fakeNotifier{}
	audit := &fakeAudit{}
	svc := NewAssignmentService(students, cascades, notifier, audit, 10, nil, nil)

	student, err := svc.AssignCounselor(context.Background(), "admin-1", "student-1", models.AssignCounselorRequest{CounselorID: "counselor-1"}, nil)
	require.NoError(t, err)
	require.NotNil(t, student.AssignedCounselor)

	require.Len(t, cascades.counselorCalls, 1)
	assert.Equal(t, "student-1", cascades.counselorCalls[0].StudentID)
	assert.Equal(t, "counselor-1", cascades.counselorCalls[0].AssigneeID)

	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, "counselor-1", notifier.notifications[0].RecipientID)
	assert.Equal(t, models.NotificationTypeAssignment, notifier.notifications[0].Type)
	assert.Equal(t, "A new student has been assigned to you", notifier.notifications[0].Message)

	assert.Equal(t, []models.AuditAction{models.AuditActionCounselorAssigned}, audit.actions())
}

func TestAssignAgentDefaultsPercentage(t *testing.T) {
	students := &fakeAssignmentStudents{}
	cascades := &fakeCascades{}
	notifier := &fakeNotifier{}
	svc := NewAssignmentService(students, cascades, notifier, &fakeAudit{}, 10, nil, nil)

	student, err := svc.AssignAgent(context.Background(), "admin-1", "student-1", models.AssignAgentRequest{AgentID: "agent-1"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 10.0, student.CommissionPercentage)
	require.Len(t, students.agentCalls, 1)
	assert.Equal(t, 10.0, students.agentCalls[0].Percentage)
	require.Len(t, notifier.notifications, 1)
	assert.Contains(t, notifier.notifications[0].Message, "10% commission")
}

func TestAssignAgentUsesSuppliedPercentage(t *testing.T) {
	students := &fakeAssignmentStudents{}
	cascades := &fakeCascades{}
	notifier := &fakeNotifier{}
	svc := NewAssignmentService(students, cascades, notifier, &fakeAudit{}, 10, nil, nil)

	_, err := svc.AssignAgent(context.Background(), "admin-1", "student-1", models.AssignAgentRequest{AgentID: "agent-1", CommissionPercentage: 12.5}, nil)
	require.NoError(t, err)

	require.Len(t, students.agentCalls, 1)
	assert.Equal(t, 12.5, students.agentCalls[0].Percentage)
	require.Len(t, cascades.agentCalls, 1)
	assert.Contains(t, notifier.notifications[0].Message, "12.5% commission")
}

func TestAssignCounselorMissingStudent(t *testing.T) {
	students := &fakeAssignmentStudents{missing: true}
	notifier := &fakeNotifier{}
	svc := NewAssignmentService(students, &fakeCascades{}, notifier, &fakeAudit{}, 10, nil, nil)

	_, err := svc.AssignCounselor(context.Background(), "admin-1", "missing", models.AssignCounselorRequest{CounselorID: "counselor-1"}, nil)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Empty(t, notifier.notifications)
}

func TestAssignCounselorRequiresCounselorID(t *testing.T) {
	svc := NewAssignmentService(&fakeAssignmentStudents{}, &fakeCascades{}, &fakeNotifier{}, &fakeAudit{}, 10, nil, nil)

	_, err := svc.AssignCounselor(context.Background(), "admin-1", "student-1", models.AssignCounselorRequest{}, nil)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
