package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleCounselor  UserRole = "counselor"
	RoleAgent      UserRole = "agent"
	RoleSuperAdmin UserRole = "super_admin"
)

// ValidRole reports whether the given role is one of the closed role set.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleStudent, RoleCounselor, RoleAgent, RoleSuperAdmin:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
// Users are never hard-deleted.
type User struct {
	ID           string     `db:"id" json:"userId"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"first_name" json:"firstName"`
	LastName     string     `db:"last_name" json:"lastName"`
	Role         UserRole   `db:"role" json:"role"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Country      *string    `db:"country" json:"country,omitempty"`
	LastLogin    *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
