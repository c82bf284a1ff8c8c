package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fly8-hq/fly8-api/internal/models"
	"github.com/fly8-hq/fly8-api/internal/realtime"
)

type fakeNotificationRepo struct {
	stored    []*models.Notification
	unread    int
	createErr error
	readCalls [][2]string
	allRead   []string
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	if notification.ID == "" {
		notification.ID = "n-created"
	}
	f.stored = append(f.stored, notification)
	return nil
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, _ int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.stored {
		if n.RecipientID == recipientID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, _ string) (int, error) {
	return f.unread, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, notificationID, recipientID string) error {
	f.readCalls = append(f.readCalls, [2]string{notificationID, recipientID})
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID string) error {
	f.allRead = append(f.allRead, recipientID)
	return nil
}

type fakeRoleDirectory struct {
	members map[models.UserRole][]models.User
}

func (f *fakeRoleDirectory) FindByRole(_ context.Context, role models.UserRole) ([]models.User, error) {
	return f.members[role], nil
}

func TestNotifyPersistsThenPushes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	hub := realtime.NewHub(4, nil)
	sub := hub.Subscribe("agent-1", models.RoleAgent)
	defer hub.Unsubscribe(sub)
	svc := NewNotificationService(repo, &fakeRoleDirectory{}, hub, 0, nil, nil)

	notification, err := svc.Notify(context.Background(), "agent-1", models.NotificationTypeCommission, "Commission Paid", "Your commission was paid", nil)
	require.NoError(t, err)
	require.Len(t, repo.stored, 1)

	event := <-sub.Events()
	assert.Equal(t, realtime.EventNewNotification, event.Name)
	assert.Equal(t, notification, event.Payload)
}

func TestNotifyDoesNotPushWhenStoreFails(t *testing.T) {
	repo := &fakeNotificationRepo{createErr: errors.New("insert failed")}
	hub := realtime.NewHub(4, nil)
	sub := hub.Subscribe("agent-1", models.RoleAgent)
	defer hub.Unsubscribe(sub)
	svc := NewNotificationService(repo, &fakeRoleDirectory{}, hub, 0, nil, nil)

	_, err := svc.Notify(context.Background(), "agent-1", models.NotificationTypeCommission, "t", "m", nil)
	require.Error(t, err)
	assert.Empty(t, sub.Events())
}

func TestNotifyRoleStoresPerMemberAndPushesOnce(t *testing.T) {
	repo := &fakeNotificationRepo{}
	users := &fakeRoleDirectory{members: map[models.UserRole][]models.User{
		models.RoleSuperAdmin: {{ID: "admin-1"}, {ID: "admin-2"}},
	}}
	hub := realtime.NewHub(4, nil)
	admin := hub.Subscribe("admin-1", models.RoleSuperAdmin)
	defer hub.Unsubscribe(admin)
	svc := NewNotificationService(repo, users, hub, 0, nil, nil)

	err := svc.NotifyRole(context.Background(), models.RoleSuperAdmin, models.NotificationTypeGeneral, "t", "m", nil)
	require.NoError(t, err)

	require.Len(t, repo.stored, 2)
	assert.Equal(t, "admin-1", repo.stored[0].RecipientID)
	assert.Equal(t, "admin-2", repo.stored[1].RecipientID)

	// Exactly one role-channel event no matter how many rows were written.
	<-admin.Events()
	assert.Empty(t, admin.Events())
}

func TestNotifyRoleWithoutMembersIsNoop(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, &fakeRoleDirectory{}, realtime.NewHub(4, nil), 0, nil, nil)

	err := svc.NotifyRole(context.Background(), models.RoleCounselor, models.NotificationTypeGeneral, "t", "m", nil)
	require.NoError(t, err)
	assert.Empty(t, repo.stored)
}

func TestNotificationListReturnsUnreadCount(t *testing.T) {
	repo := &fakeNotificationRepo{unread: 3}
	repo.stored = append(repo.stored, &models.Notification{ID: "n-1", RecipientID: "user-1"})
	svc := NewNotificationService(repo, &fakeRoleDirectory{}, nil, 0, nil, nil)

	notifications, unread, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
	assert.Equal(t, 3, unread)
}

func TestMarkReadScopesToRecipient(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, &fakeRoleDirectory{}, nil, 0, nil, nil)

	require.NoError(t, svc.MarkRead(context.Background(), "n-1", "user-1"))
	require.NoError(t, svc.MarkAllRead(context.Background(), "user-1"))

	assert.Equal(t, [][2]string{{"n-1", "user-1"}}, repo.readCalls)
	assert.Equal(t, []string{"user-1"}, repo.allRead)
}

func TestEchoSkipsPersistence(t *testing.T) {
	repo := &fakeNotificationRepo{}
	hub := realtime.NewHub(4, nil)
	sub := hub.Subscribe("agent-1", models.RoleAgent)
	defer hub.Unsubscribe(sub)
	svc := NewNotificationService(repo, &fakeRoleDirectory{}, hub, 0, nil, nil)

	svc.Echo("agent-1", realtime.EventCommissionPaid, map[string]string{"id": "c-1"})

	event := <-sub.Events()
	assert.Equal(t, realtime.EventCommissionPaid, event.Name)
	assert.Empty(t, repo.stored)
}
