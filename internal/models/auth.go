package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token type claim values.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AdminLoginRequest authenticates a school admin. The school is implicit: it
// comes from the tenant resolved for the request's domain.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	IP       string `json:"-"`
}

// TeacherLoginRequest authenticates a teacher against an explicit school.
type TeacherLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	SchoolID int64  `json:"school_id" validate:"required"`
	IP       string `json:"-"`
}

// RefreshRequest exchanges a refresh token for a fresh pair.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TokenPair is the issued refresh/access pairing.
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// SchoolInfo is the school block embedded in login responses.
type SchoolInfo struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	UniqueID          string `json:"unique_id"`
	SubscriptionValid bool   `json:"subscription_valid"`
}

// UserInfo is the user block embedded in login responses.
type UserInfo struct {
	ID    int64     `json:"id"`
	Email string    `json:"email"`
	Role  *UserRole `json:"role"`
}

// TeacherInfo is the teacher block embedded in the teacher login response.
type TeacherInfo struct {
	ID         int64  `json:"id"`
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
}

// AdminLoginResponse is returned by the school-admin login endpoint.
type AdminLoginResponse struct {
	School SchoolInfo `json:"school"`
	User   UserInfo   `json:"user"`
	Tokens TokenPair  `json:"tokens"`
}

// TeacherLoginResponse is returned by the teacher login endpoint.
type TeacherLoginResponse struct {
	School  SchoolInfo  `json:"school"`
	Teacher TeacherInfo `json:"teacher"`
	User    UserInfo    `json:"user"`
	Tokens  TokenPair   `json:"tokens"`
}

// MeResponse describes the authenticated account and its tenant context as
// carried by the presented access token.
type MeResponse struct {
	User           UserInfo `json:"user"`
	SchoolID       *int64   `json:"school_id"`
	SchoolUniqueID *string  `json:"school_unique_id"`
	Domain         *string  `json:"domain"`
	TeacherID      *int64   `json:"teacher_id"`
	EmployeeID     *string  `json:"employee_id"`
}

// JWTClaims is the token payload. Tenant claims use pointers so that absence
// is tracked explicitly: an id of 0 is a valid id and is still emitted, while
// a nil pointer omits the claim entirely.
type JWTClaims struct {
	TokenType      string    `json:"token_type"`
	UserID         int64     `json:"user_id"`
	Role           *UserRole `json:"role"`
	SchoolID       *int64    `json:"school_id,omitempty"`
	SchoolUniqueID *string   `json:"school_unique_id,omitempty"`
	Domain         *string   `json:"domain,omitempty"`
	TeacherID      *int64    `json:"teacher_id,omitempty"`
	EmployeeID     *string   `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}
