package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fly8-hq/fly8-api/internal/models"
)

// NotificationRepository provides persistence for notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a new notification. Notifications are never deleted.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO notifications (id, recipient_id, type, title, message, is_read, metadata, created_at) VALUES (:id, :recipient_id, :type, :title, :message, :is_read, :metadata, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListByRecipient returns a recipient's notifications, newest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT id, recipient_id, type, title, message, is_read, metadata, created_at FROM notifications WHERE recipient_id = $1 ORDER BY created_at DESC LIMIT $2`
	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, recipientID, limit); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// CountUnread returns the number of unread notifications for a recipient.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`
	var total int
	if err := r.db.GetContext(ctx, &total, query, recipientID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return total, nil
}

// MarkRead marks a notification read, scoped by recipient so a caller cannot
// touch another user's notification. A mismatched recipient is a no-op.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, recipientID string) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`
	if _, err := r.db.ExecContext(ctx, query, notificationID, recipientID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks every unread notification for a recipient as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`
	if _, err := r.db.ExecContext(ctx, query, recipientID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
