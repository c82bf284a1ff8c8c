package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fly8-hq/fly8-api/internal/models"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
)

type fakeAdminUsers struct {
	byEmail map[string]*models.User
	byRole  map[models.UserRole][]models.User
	created []*models.User
}

func newFakeAdminUsers() *fakeAdminUsers {
	return &fakeAdminUsers{
		byEmail: make(map[string]*models.User),
		byRole:  make(map[models.UserRole][]models.User),
	}
}

func (f *fakeAdminUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeAdminUsers) FindByID(_ context.Context, _ string) (*models.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeAdminUsers) FindByRole(_ context.Context, role models.UserRole) ([]models.User, error) {
	return f.byRole[role], nil
}

func (f *fakeAdminUsers) Create(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "user-created"
	}
	f.byEmail[user.Email] = user
	f.created = append(f.created, user)
	return nil
}

func (f *fakeAdminUsers) CountByRole(_ context.Context, role models.UserRole) (int, error) {
	return len(f.byRole[role]), nil
}

type fakeAdminStudents struct {
	students []models.Student
}

func (f *fakeAdminStudents) List(_ context.Context) ([]models.Student, error) {
	return f.students, nil
}

func (f *fakeAdminStudents) Count(_ context.Context) (int, error) {
	return len(f.students), nil
}

type fakeAdminApplications struct {
	active    int
	completed int
}

func (f *fakeAdminApplications) ListByStudent(_ context.Context, _ string) ([]models.ServiceApplication, error) {
	return nil, nil
}

func (f *fakeAdminApplications) CountByStatuses(_ context.Context, statuses ...models.ApplicationStatus) (int, error) {
	for _, status := range statuses {
		if status == models.ApplicationStatusCompleted {
			return f.completed, nil
		}
	}
	return f.active, nil
}

type fakeMetricsCache struct {
	entries map[string][]byte
	sets    int
	hits    int
}

func newFakeMetricsCache() *fakeMetricsCache {
	return &fakeMetricsCache{entries: make(map[string][]byte)}
}

func (f *fakeMetricsCache) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	f.hits++
	return json.Unmarshal(payload, dest)
}

func (f *fakeMetricsCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = payload
	f.sets++
	return nil
}

func TestAdminMetricsComputesAndCaches(t *testing.T) {
	users := newFakeAdminUsers()
	users.byRole[models.RoleCounselor] = []models.User{{ID: "c-1"}, {ID: "c-2"}}
	users.byRole[models.RoleAgent] = []models.User{{ID: "a-1"}}
	students := &fakeAdminStudents{students: []models.Student{{ID: "s-1"}, {ID: "s-2"}, {ID: "s-3"}}}
	apps := &fakeAdminApplications{active: 5, completed: 2}
	cache := newFakeMetricsCache()
	svc := NewAdminService(users, students, apps, cache, time.Minute, nil, &fakeAudit{}, nil, nil)

	metrics, err := svc.Metrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, metrics.TotalStudents)
	assert.Equal(t, 2, metrics.TotalCounselors)
	assert.Equal(t, 1, metrics.TotalAgents)
	assert.Equal(t, 5, metrics.ActiveApplications)
	assert.Equal(t, 2, metrics.CompletedApplications)
	assert.Equal(t, 1, cache.sets)

	// Second call is served from the cache.
	again, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, metrics.TotalStudents, again.TotalStudents)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, cache.sets)
}

func TestAdminMetricsWithoutCache(t *testing.T) {
	svc := NewAdminService(newFakeAdminUsers(), &fakeAdminStudents{}, &fakeAdminApplications{}, nil, 0, nil, &fakeAudit{}, nil, nil)

	metrics, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, metrics.TotalStudents)
}

func TestAdminCreateUserRestrictsRole(t *testing.T) {
	svc := NewAdminService(newFakeAdminUsers(), &fakeAdminStudents{}, &fakeAdminApplications{}, nil, 0, nil, &fakeAudit{}, nil, nil)

	_, err := svc.CreateUser(context.Background(), "admin-1", models.CreateUserRequest{
		Email:     "x@example.com",
		Password:  "secret1",
		FirstName: "A",
		LastName:  "B",
		Role:      "super_admin",
	}, nil)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAdminCreateUserProvisionsCounselor(t *testing.T) {
	users := newFakeAdminUsers()
	audit := &fakeAudit{}
	svc := NewAdminService(users, &fakeAdminStudents{}, &fakeAdminApplications{}, nil, 0, nil, audit, nil, nil)

	user, err := svc.CreateUser(context.Background(), "admin-1", models.CreateUserRequest{
		Email:     "Counselor@Example.com",
		Password:  "secret1",
		FirstName: "Nadia",
		LastName:  "Islam",
		Role:      "counselor",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "counselor@example.com", user.Email)
	assert.Equal(t, models.RoleCounselor, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.Equal(t, []models.AuditAction{models.AuditActionUserCreated}, audit.actions())

	_, err = svc.CreateUser(context.Background(), "admin-1", models.CreateUserRequest{
		Email:     "counselor@example.com",
		Password:  "secret1",
		FirstName: "Nadia",
		LastName:  "Islam",
		Role:      "counselor",
	}, nil)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErr.Code)
}
