package models

import (
	"strings"
	"time"
)

// UserRole represents the role attached to an account. Superusers carry no
// role at all.
type UserRole string

const (
	RoleSchoolAdmin UserRole = "schooladmin"
	RoleTeacher     UserRole = "teacher"
	RoleStudent     UserRole = "student"
)

// User is an account row. PasswordHash always holds a bcrypt hash; raw
// passwords are hashed once, when the account is created, and never stored.
type User struct {
	ID           int64      `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	Role         *UserRole  `db:"role" json:"role,omitempty"`
	IsSuperuser  bool       `db:"is_superuser" json:"is_superuser"`
	Active       bool       `db:"is_active" json:"is_active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// HasRole reports whether the account carries the given role.
func (u *User) HasRole(role UserRole) bool {
	return u.Role != nil && *u.Role == role
}

// FullName joins the name parts, matching how the roster displays teachers.
func (u *User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// NormalizeEmail trims and lower-cases an email for lookups. Both login flows
// normalize before touching the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RoleProfileKind tags the role-specific record linked to a user.
type RoleProfileKind string

const (
	ProfileNone        RoleProfileKind = ""
	ProfileSchoolAdmin RoleProfileKind = "schooladmin"
	ProfileTeacher     RoleProfileKind = "teacher"
	ProfileStudent     RoleProfileKind = "student"
)

// RoleProfile is the role-specific record for a user, resolved by a single
// keyed lookup on (user id, role). At most one arm is set, matching Kind.
type RoleProfile struct {
	Kind        RoleProfileKind
	SchoolAdmin *SchoolAdminLink
	Teacher     *Teacher
	Student     *Student
}

// SchoolID returns the school the profile binds the user to, and whether any
// profile is present at all.
func (p RoleProfile) SchoolID() (int64, bool) {
	switch p.Kind {
	case ProfileSchoolAdmin:
		if p.SchoolAdmin != nil {
			return p.SchoolAdmin.SchoolID, true
		}
	case ProfileTeacher:
		if p.Teacher != nil {
			return p.Teacher.SchoolID, true
		}
	case ProfileStudent:
		if p.Student != nil {
			return p.Student.SchoolID, true
		}
	}
	return 0, false
}

// Student reserves the student role-profile shape. Student login is not
// implemented yet; the record only participates in role-profile resolution.
type Student struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	SchoolID  int64     `db:"school_id" json:"school_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
