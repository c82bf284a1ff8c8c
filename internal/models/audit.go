package models

import (
	"encoding/json"
	"time"
)

// AuditAction is the closed set of event names recorded by the audit trail.
type AuditAction string

const (
	AuditActionUserCreated        AuditAction = "user_created"
	AuditActionUserLogin          AuditAction = "user_login"
	AuditActionStudentOnboarded   AuditAction = "student_onboarded"
	AuditActionServiceApplied     AuditAction = "service_applied"
	AuditActionCounselorAssigned  AuditAction = "counselor_assigned"
	AuditActionAgentAssigned      AuditAction = "agent_assigned"
	AuditActionAppStatusUpdated   AuditAction = "application_status_updated"
	AuditActionPaymentInitiated   AuditAction = "payment_initiated"
	AuditActionPaymentCompleted   AuditAction = "payment_completed"
	AuditActionCommissionApproved AuditAction = "commission_approved"
	AuditActionCommissionPaid     AuditAction = "commission_paid"
	AuditActionDocumentUploaded   AuditAction = "document_uploaded"
	AuditActionNoteAdded          AuditAction = "note_added"
)

// Audit resource types.
const (
	AuditResourceUser        = "user"
	AuditResourceStudent     = "student"
	AuditResourceApplication = "application"
	AuditResourcePayment     = "payment"
	AuditResourceCommission  = "commission"
	AuditResourceDocument    = "document"
)

// AuditLog is an append-only audit trail record.
type AuditLog struct {
	ID           string          `db:"id" json:"logId"`
	UserID       string          `db:"user_id" json:"userId"`
	Action       AuditAction     `db:"action" json:"action"`
	ResourceType *string         `db:"resource_type" json:"resourceType,omitempty"`
	ResourceID   *string         `db:"resource_id" json:"resourceId,omitempty"`
	Details      json.RawMessage `db:"details" json:"details,omitempty"`
	IPAddress    *string         `db:"ip_address" json:"ipAddress,omitempty"`
	UserAgent    *string         `db:"user_agent" json:"userAgent,omitempty"`
	Timestamp    time.Time       `db:"timestamp" json:"timestamp"`
}

// RequestContext carries caller metadata captured from the HTTP layer for
// audit recording.
type RequestContext struct {
	IPAddress string
	UserAgent string
}
