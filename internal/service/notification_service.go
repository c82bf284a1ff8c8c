package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/fly8-hq/fly8-api/internal/models"
	"github.com/fly8-hq/fly8-api/internal/realtime"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
)

type notificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, notificationID, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) error
}

type notificationUserRepository interface {
	FindByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
}

type notificationHub interface {
	PublishToUser(userID string, event realtime.Event)
	PublishToRole(role models.UserRole, event realtime.Event)
}

// NotificationService persists notifications and pushes them over the live
// channel. Persistence always happens first; the push is best effort with no
// acknowledgment, retry, or redelivery.
type NotificationService struct {
	repo      notificationRepository
	users     notificationUserRepository
	hub       notificationHub
	listLimit int
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewNotificationService constructs the dispatcher.
func NewNotificationService(repo notificationRepository, users notificationUserRepository, hub notificationHub, listLimit int, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if listLimit <= 0 {
		listLimit = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, users: users, hub: hub, listLimit: listLimit, metrics: metrics, logger: logger}
}

// Notify stores a notification for one recipient and pushes it to any live
// connection of that recipient.
func (s *NotificationService) Notify(ctx context.Context, recipientID string, notifType models.NotificationType, title, message string, metadata json.RawMessage) (*models.Notification, error) {
	notification := &models.Notification{
		RecipientID: recipientID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		Metadata:    metadata,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store notification")
	}
	s.metrics.CountNotification(string(notifType))

	if s.hub != nil {
		s.hub.PublishToUser(recipientID, realtime.Event{Name: realtime.EventNewNotification, Payload: notification})
	}
	return notification, nil
}

// NotifyRole stores one notification per user holding the role, then pushes
// a single event to the role channel.
func (s *NotificationService) NotifyRole(ctx context.Context, role models.UserRole, notifType models.NotificationType, title, message string, metadata json.RawMessage) error {
	recipients, err := s.users.FindByRole(ctx, role)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve role recipients")
	}

	var last *models.Notification
	for i := range recipients {
		notification := &models.Notification{
			RecipientID: recipients[i].ID,
			Type:        notifType,
			Title:       title,
			Message:     message,
			Metadata:    metadata,
		}
		if err := s.repo.Create(ctx, notification); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store notification")
		}
		s.metrics.CountNotification(string(notifType))
		last = notification
	}

	if s.hub != nil && last != nil {
		s.hub.PublishToRole(role, realtime.Event{Name: realtime.EventNewNotification, Payload: last})
	}
	return nil
}

// Echo pushes a domain event to a recipient's live connections without
// persisting anything.
func (s *NotificationService) Echo(recipientID, event string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.PublishToUser(recipientID, realtime.Event{Name: event, Payload: payload})
}

// List returns a recipient's notifications, newest first, together with the
// unread count.
func (s *NotificationService) List(ctx context.Context, recipientID string) ([]models.Notification, int, error) {
	notifications, err := s.repo.ListByRecipient(ctx, recipientID, s.listLimit)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	unread, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unread notifications")
	}
	return notifications, unread, nil
}

// MarkRead flags a notification read, scoped to the recipient. A mismatched
// recipient leaves the notification untouched.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, recipientID string) error {
	if err := s.repo.MarkRead(ctx, notificationID, recipientID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	return nil
}

// MarkAllRead flags every unread notification for a recipient.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	if err := s.repo.MarkAllRead(ctx, recipientID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	return nil
}
