package models

import "time"

// ApplicationStatus enumerates service application states. Any status may
// follow any status; only "completed" has a side effect (completedAt stamp).
type ApplicationStatus string

const (
	ApplicationStatusNotStarted ApplicationStatus = "not_started"
	ApplicationStatusInProgress ApplicationStatus = "in_progress"
	ApplicationStatusCompleted  ApplicationStatus = "completed"
	ApplicationStatusOnHold     ApplicationStatus = "on_hold"
)

// ValidApplicationStatus reports whether s is a known status value.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusNotStarted, ApplicationStatusInProgress, ApplicationStatusCompleted, ApplicationStatusOnHold:
		return true
	}
	return false
}

// ServiceApplication tracks one student's progress through one service.
// At most one application exists per (studentId, serviceId) pair.
type ServiceApplication struct {
	ID                string            `db:"id" json:"applicationId"`
	StudentID         string            `db:"student_id" json:"studentId"`
	ServiceID         string            `db:"service_id" json:"serviceId"`
	Status            ApplicationStatus `db:"status" json:"status"`
	AssignedCounselor *string           `db:"assigned_counselor" json:"assignedCounselor,omitempty"`
	AssignedAgent     *string           `db:"assigned_agent" json:"assignedAgent,omitempty"`
	CompletedAt       *time.Time        `db:"completed_at" json:"completedAt,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updatedAt"`

	Notes []ApplicationNote `db:"-" json:"notes"`
}

// ApplicationNote is an append-only remark on an application, ordered by
// insertion.
type ApplicationNote struct {
	ID            string    `db:"id" json:"-"`
	ApplicationID string    `db:"application_id" json:"-"`
	Text          string    `db:"text" json:"text"`
	AddedBy       string    `db:"added_by" json:"addedBy"`
	AddedAt       time.Time `db:"added_at" json:"addedAt"`
}
