package models

import (
	"encoding/json"
	"time"
)

// Service is a static catalog entry for a counseling service.
type Service struct {
	ID          string    `db:"id" json:"serviceId"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Icon        string    `db:"icon" json:"icon"`
	Color       string    `db:"color" json:"color"`
	Order       int       `db:"display_order" json:"order"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// University is static reference data for the course finder.
type University struct {
	ID        string          `db:"id" json:"universityId"`
	Name      string          `db:"name" json:"name"`
	Country   string          `db:"country" json:"country"`
	City      *string         `db:"city" json:"city,omitempty"`
	Ranking   *int            `db:"ranking" json:"ranking,omitempty"`
	Logo      *string         `db:"logo" json:"logo,omitempty"`
	Website   *string         `db:"website" json:"website,omitempty"`
	Programs  json.RawMessage `db:"programs" json:"programs,omitempty"`
	IsActive  bool            `db:"is_active" json:"isActive"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

// UniversityProgram is one entry of a university's programs payload.
type UniversityProgram struct {
	Name       string  `json:"name"`
	Degree     string  `json:"degree"`
	Duration   string  `json:"duration"`
	TuitionFee float64 `json:"tuitionFee"`
}

// AdminMetrics is the dashboard snapshot for super admins.
type AdminMetrics struct {
	TotalStudents         int `json:"totalStudents"`
	TotalCounselors       int `json:"totalCounselors"`
	TotalAgents           int `json:"totalAgents"`
	ActiveApplications    int `json:"activeApplications"`
	CompletedApplications int `json:"completedApplications"`
}
