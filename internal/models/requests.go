package models

// OnboardingRequest completes a student's onboarding and creates the case.
type OnboardingRequest struct {
	Phone               string   `json:"phone"`
	Country             string   `json:"country"`
	InterestedCountries []string `json:"interestedCountries"`
	SelectedServices    []string `json:"selectedServices"`
}

// ApplyServicesRequest requests applications for one or more services.
type ApplyServicesRequest struct {
	ServiceIDs []string `json:"serviceIds" validate:"required,min=1"`
}

// UpdateApplicationRequest updates an application's status and/or appends a
// note. Both fields are optional; an empty request is a no-op write.
type UpdateApplicationRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// AssignCounselorRequest binds a counselor to a student case.
type AssignCounselorRequest struct {
	CounselorID string `json:"counselorId" validate:"required"`
}

// AssignAgentRequest binds an agent to a student case. A zero or omitted
// percentage falls back to the configured default.
type AssignAgentRequest struct {
	AgentID              string  `json:"agentId" validate:"required"`
	CommissionPercentage float64 `json:"commissionPercentage"`
}

// CreateCommissionRequest books a pending commission for an agent.
type CreateCommissionRequest struct {
	AgentID    string  `json:"agentId" validate:"required"`
	StudentID  string  `json:"studentId" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Percentage float64 `json:"percentage"`
}

// CreateUserRequest lets an admin provision counselor or agent accounts.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role" validate:"required"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
}

// CreateUniversityRequest adds a university to the course finder data.
type CreateUniversityRequest struct {
	Name     string              `json:"name" validate:"required"`
	Country  string              `json:"country" validate:"required"`
	City     string              `json:"city"`
	Ranking  *int                `json:"ranking"`
	Logo     string              `json:"logo"`
	Website  string              `json:"website"`
	Programs []UniversityProgram `json:"programs"`
}
