package service

import (
	"context"
	"encoding/json"

	"github.com/fly8-hq/fly8-api/internal/models"
	"github.com/fly8-hq/fly8-api/internal/realtime"
)

type notifyCall struct {
	RecipientID string
	Type        models.NotificationType
	Title       string
	Message     string
	Metadata    json.RawMessage
}

type notifyRoleCall struct {
	Role     models.UserRole
	Type     models.NotificationType
	Title    string
	Message  string
	Metadata json.RawMessage
}

type fakeNotifier struct {
	notifications []notifyCall
	roleCalls     []notifyRoleCall
	echoes        []realtime.Event
	notifyErr     error
}

func (f *fakeNotifier) Notify(_ context.Context, recipientID string, notifType models.NotificationType, title, message string, metadata json.RawMessage) (*models.Notification, error) {
	if f.notifyErr != nil {
		return nil, f.notifyErr
	}
	f.notifications = append(f.notifications, notifyCall{RecipientID: recipientID, Type: notifType, Title: title, Message: message, Metadata: metadata})
	return &models.Notification{RecipientID: recipientID, Type: notifType, Title: title, Message: message, Metadata: metadata}, nil
}

func (f *fakeNotifier) NotifyRole(_ context.Context, role models.UserRole, notifType models.NotificationType, title, message string, metadata json.RawMessage) error {
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.roleCalls = append(f.roleCalls, notifyRoleCall{Role: role, Type: notifType, Title: title, Message: message, Metadata: metadata})
	return nil
}

func (f *fakeNotifier) Echo(recipientID, event string, payload interface{}) {
	f.echoes = append(f.echoes, realtime.Event{Name: event, Payload: payload})
}

type auditCall struct {
	ActorID      string
	Action       models.AuditAction
	ResourceType string
	ResourceID   string
	Details      interface{}
}

type fakeAudit struct {
	calls []auditCall
}

func (f *fakeAudit) Record(_ context.Context, actorID string, action models.AuditAction, resourceType, resourceID string, details interface{}, _ *models.RequestContext) {
	f.calls = append(f.calls, auditCall{ActorID: actorID, Action: action, ResourceType: resourceType, ResourceID: resourceID, Details: details})
}

func (f *fakeAudit) actions() []models.AuditAction {
	actions := make([]models.AuditAction, 0, len(f.calls))
	for _, call := range f.calls {
		actions = append(actions, call.Action)
	}
	return actions
}
