package models

import (
	"time"

	"github.com/google/uuid"
)

// Teacher is the role-profile linking a user account to one school. The
// employee id is unique within the school, as is the (school, user) pair.
type Teacher struct {
	ID         int64     `db:"id" json:"id"`
	UUID       uuid.UUID `db:"uuid" json:"uuid"`
	UserID     int64     `db:"user_id" json:"user_id"`
	SchoolID   int64     `db:"school_id" json:"school_id"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	// Joined from the linked user row.
	Email      string `db:"email" json:"email"`
	FirstName  string `db:"first_name" json:"first_name"`
	LastName   string `db:"last_name" json:"last_name"`
	UserActive bool   `db:"user_active" json:"user_active"`
}

// FullName mirrors the roster display name.
func (t *Teacher) FullName() string {
	u := User{FirstName: t.FirstName, LastName: t.LastName}
	return u.FullName()
}

// TeacherFilter captures listing options for the roster.
type TeacherFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}

// CreateTeacherRequest provisions a teacher account plus its school-scoped
// profile in one step.
type CreateTeacherRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	EmployeeID string `json:"employee_id" validate:"required"`
}

// TeacherDetail is the roster view of a teacher.
type TeacherDetail struct {
	ID         int64  `json:"id"`
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	FullName   string `json:"full_name"`
	Active     bool   `json:"is_active"`
}

// TeacherListResponse pages through a school roster.
type TeacherListResponse struct {
	Teachers []TeacherDetail `json:"teachers"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}
