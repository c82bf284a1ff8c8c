package models

import (
	"time"

	"github.com/lib/pq"
)

// StudentStatus enumerates a student's overall case state.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusCompleted StudentStatus = "completed"
)

// Student represents a student case created at onboarding completion.
// The studentId is an app-generated identifier distinct from the user's.
type Student struct {
	ID                   string         `db:"id" json:"studentId"`
	UserID               string         `db:"user_id" json:"userId"`
	InterestedCountries  pq.StringArray `db:"interested_countries" json:"interestedCountries"`
	SelectedServices     pq.StringArray `db:"selected_services" json:"selectedServices"`
	OnboardingCompleted  bool           `db:"onboarding_completed" json:"onboardingCompleted"`
	AssignedCounselor    *string        `db:"assigned_counselor" json:"assignedCounselor,omitempty"`
	AssignedAgent        *string        `db:"assigned_agent" json:"assignedAgent,omitempty"`
	CommissionPercentage float64        `db:"commission_percentage" json:"commissionPercentage"`
	Status               StudentStatus  `db:"status" json:"status"`
	CreatedAt            time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updatedAt"`
}

// StudentDetail is a student denormalised with owner and applications,
// assembled per record by re-querying as the routes do.
type StudentDetail struct {
	Student
	User         *User                `json:"user,omitempty"`
	Applications []ServiceApplication `json:"applications"`
}
