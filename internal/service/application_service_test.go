package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fly8-hq/fly8-api/internal/models"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
)

type fakeApplications struct {
	apps    map[string]*models.ServiceApplication
	updates int
	notes   map[string][]models.ApplicationNote
}

func newFakeApplications(apps ...*models.ServiceApplication) *fakeApplications {
	f := &fakeApplications{
		apps:  make(map[string]*models.ServiceApplication),
		notes: make(map[string][]models.ApplicationNote),
	}
	for _, app := range apps {
		f.apps[app.ID] = app
	}
	return f
}

func (f *fakeApplications) FindByID(_ context.Context, id string) (*models.ServiceApplication, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *app
	return &copied, nil
}

func (f *fakeApplications) Update(_ context.Context, app *models.ServiceApplication) error {
	f.updates++
	f.apps[app.ID] = app
	return nil
}

func (f *fakeApplications) AddNote(_ context.Context, note *models.ApplicationNote) error {
	if note.ID == "" {
		note.ID = "note-created"
	}
	f.notes[note.ApplicationID] = append(f.notes[note.ApplicationID], *note)
	return nil
}

func (f *fakeApplications) ListNotes(_ context.Context, applicationID string) ([]models.ApplicationNote, error) {
	return f.notes[applicationID], nil
}

func (f *fakeApplications) ListByStudent(_ context.Context, studentID string) ([]models.ServiceApplication, error) {
	var out []models.ServiceApplication
	for _, app := range f.apps {
		if app.StudentID == studentID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (f *fakeApplications) ListByStudentAndAgent(_ context.Context, studentID, agentID string) ([]models.ServiceApplication, error) {
	var out []models.ServiceApplication
	for _, app := range f.apps {
		if app.StudentID == studentID && app.AssignedAgent != nil && *app.AssignedAgent == agentID {
			out = append(out, *app)
		}
	}
	return out, nil
}

type fakeCaseload struct {
	students map[string]*models.Student
}

func (f *fakeCaseload) FindByID(_ context.Context, id string) (*models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return student, nil
}

func (f *fakeCaseload) ListByCounselor(_ context.Context, counselorID string) ([]models.Student, error) {
	var out []models.Student
	for _, s := range f.students {
		if s.AssignedCounselor != nil && *s.AssignedCounselor == counselorID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeCaseload) ListByAgent(_ context.Context, agentID string) ([]models.Student, error) {
	var out []models.Student
	for _, s := range f.students {
		if s.AssignedAgent != nil && *s.AssignedAgent == agentID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeCaseloadUsers struct {
	users map[string]*models.User
}

func (f *fakeCaseloadUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func newApplicationService(apps *fakeApplications, caseload *fakeCaseload, notifier *fakeNotifier, audit *fakeAudit) *ApplicationService {
	if caseload == nil {
		caseload = &fakeCaseload{students: map[string]*models.Student{}}
	}
	return NewApplicationService(apps, caseload, &fakeCaseloadUsers{}, notifier, audit, nil, nil)
}

func TestUpdateApplicationStatusNotifiesStudent(t *testing.T) {
	apps := newFakeApplications(&models.ServiceApplication{ID: "app-1", StudentID: "student-1", ServiceID: "service-1", Status: models.ApplicationStatusNotStarted})
	caseload := &fakeCaseload{students: map[string]*models.Student{
		"student-1": {ID: "student-1", UserID: "user-1"},
	}}
	notifier := &fakeNotifier{}
	audit := &fakeAudit{}
	svc := newApplicationService(apps, caseload, notifier, audit)

	app, err := svc.UpdateApplication(context.Background(), "counselor-1", "app-1", models.UpdateApplicationRequest{Status: "in_progress"}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationStatusInProgress, app.Status)
	assert.Nil(t, app.CompletedAt)
	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, "user-1", notifier.notifications[0].RecipientID)
	assert.Equal(t, models.NotificationTypeStatusUpdate, notifier.notifications[0].Type)
	assert.Equal(t, []models.AuditAction{models.AuditActionAppStatusUpdated}, audit.actions())
}

func TestUpdateApplicationCompletedStampsCompletedAt(t *testing.T) {
	already := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	apps := newFakeApplications(&models.ServiceApplication{ID: "app-1", StudentID: "student-1", Status: models.ApplicationStatusCompleted, CompletedAt: &already})
	svc := newApplicationService(apps, nil, &fakeNotifier{}, &fakeAudit{})

	app, err := svc.UpdateApplication(context.Background(), "counselor-1", "app-1", models.UpdateApplicationRequest{Status: "completed"}, nil)
	require.NoError(t, err)

	// Re-completing restamps the timestamp rather than preserving it.
	require.NotNil(t, app.CompletedAt)
	assert.True(t, app.CompletedAt.After(already))
}

func TestUpdateApplicationUnknownStatus(t *testing.T) {
	apps := newFakeApplications(&models.ServiceApplication{ID: "app-1", StudentID: "student-1"})
	svc := newApplicationService(apps, nil, &fakeNotifier{}, &fakeAudit{})

	_, err := svc.UpdateApplication(context.Background(), "counselor-1", "app-1", models.UpdateApplicationRequest{Status: "archived"}, nil)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Zero(t, apps.updates)
}

func TestUpdateApplicationMissing(t *testing.T) {
	svc := newApplicationService(newFakeApplications(), nil, &fakeNotifier{}, &fakeAudit{})

	_, err := svc.UpdateApplication(context.Background(), "counselor-1", "missing", models.UpdateApplicationRequest{Status: "completed"}, nil)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestUpdateApplicationNoteOnly(t *testing.T) {
	apps := newFakeApplications(&models.ServiceApplication{ID: "app-1", StudentID: "student-1", Status: models.ApplicationStatusInProgress})
	notifier := &fakeNotifier{}
	audit := &fakeAudit{}
	svc := newApplicationService(apps, nil, notifier, audit)

	app, err := svc.UpdateApplication(context.Background(), "counselor-1", "app-1", models.UpdateApplicationRequest{Note: "called the student"}, nil)
	require.NoError(t, err)

	assert.Zero(t, apps.updates)
	assert.Empty(t, notifier.notifications)
	require.Len(t, app.Notes, 1)
	assert.Equal(t, "called the student", app.Notes[0].Text)
	assert.Equal(t, "counselor-1", app.Notes[0].AddedBy)
	assert.Equal(t, []models.AuditAction{models.AuditActionNoteAdded}, audit.actions())
}

func TestUpdateApplicationStatusAndNoteRecordsBoth(t *testing.T) {
	apps := newFakeApplications(&models.ServiceApplication{ID: "app-1", StudentID: "student-1", Status: models.ApplicationStatusNotStarted})
	audit := &fakeAudit{}
	svc := newApplicationService(apps, nil, &fakeNotifier{}, audit)

	_, err := svc.UpdateApplication(context.Background(), "counselor-1", "app-1", models.UpdateApplicationRequest{Status: "in_progress", Note: "kickoff done"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []models.AuditAction{models.AuditActionAppStatusUpdated, models.AuditActionNoteAdded}, audit.actions())
}

func TestMyStudentsScopedToCounselor(t *testing.T) {
	counselor := "counselor-1"
	other := "counselor-2"
	apps := newFakeApplications(&models.ServiceApplication{ID: "app-1", StudentID: "student-1"})
	caseload := &fakeCaseload{students: map[string]*models.Student{
		"student-1": {ID: "student-1", UserID: "user-1", AssignedCounselor: &counselor},
		"student-2": {ID: "student-2", UserID: "user-2", AssignedCounselor: &other},
	}}
	svc := newApplicationService(apps, caseload, &fakeNotifier{}, &fakeAudit{})

	details, err := svc.MyStudents(context.Background(), counselor)
	require.NoError(t, err)

	require.Len(t, details, 1)
	assert.Equal(t, "student-1", details[0].Student.ID)
	assert.Len(t, details[0].Applications, 1)
}

func TestAgentStudentsScopesApplicationsToAgent(t *testing.T) {
	agent := "agent-1"
	otherAgent := "agent-2"
	apps := newFakeApplications(
		&models.ServiceApplication{ID: "app-1", StudentID: "student-1", AssignedAgent: &agent},
		&models.ServiceApplication{ID: "app-2", StudentID: "student-1", AssignedAgent: &otherAgent},
	)
	caseload := &fakeCaseload{students: map[string]*models.Student{
		"student-1": {ID: "student-1", UserID: "user-1", AssignedAgent: &agent},
	}}
	svc := newApplicationService(apps, caseload, &fakeNotifier{}, &fakeAudit{})

	details, err := svc.AgentStudents(context.Background(), agent)
	require.NoError(t, err)

	require.Len(t, details, 1)
	require.Len(t, details[0].Applications, 1)
	assert.Equal(t, "app-1", details[0].Applications[0].ID)
}
