package models

import (
	"encoding/json"
	"time"
)

// NotificationType enumerates notification categories.
type NotificationType string

const (
	NotificationTypeServiceApplication NotificationType = "service_application"
	NotificationTypeAssignment         NotificationType = "assignment"
	NotificationTypeStatusUpdate       NotificationType = "status_update"
	NotificationTypeCommission         NotificationType = "commission"
	NotificationTypeGeneral            NotificationType = "general"
)

// Notification is a persisted message for a single recipient. Visibility is
// enforced at query time by scoping on recipientId.
type Notification struct {
	ID          string           `db:"id" json:"notificationId"`
	RecipientID string           `db:"recipient_id" json:"recipientId"`
	Type        NotificationType `db:"type" json:"type"`
	Title       string           `db:"title" json:"title"`
	Message     string           `db:"message" json:"message"`
	IsRead      bool             `db:"is_read" json:"isRead"`
	Metadata    json.RawMessage  `db:"metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}

// Metadata shapes per notification type. Each type carries exactly one of
// these, serialized into the metadata column.

// AssignmentMetadata accompanies type=assignment.
type AssignmentMetadata struct {
	StudentID string `json:"studentId"`
}

// ServiceApplicationMetadata accompanies type=service_application.
type ServiceApplicationMetadata struct {
	StudentID string `json:"studentId"`
	ServiceID string `json:"serviceId"`
}

// CommissionMetadata accompanies type=commission.
type CommissionMetadata struct {
	CommissionID string  `json:"commissionId"`
	Amount       float64 `json:"amount"`
}

// GeneralMetadata accompanies type=general.
type GeneralMetadata struct {
	StudentID string `json:"studentId,omitempty"`
}

// MarshalMetadata serializes a metadata shape, returning nil on failure so a
// malformed payload never blocks dispatch.
func MarshalMetadata(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
