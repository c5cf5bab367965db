package models

import (
	"time"

	"github.com/google/uuid"
)

// School is the tenant-owned entity gating login through its active flag and
// subscription window. The auth core reads it and only ever writes last_login.
type School struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	UniqueID      string    `db:"unique_id" json:"unique_id"`
	UUID          uuid.UUID `db:"uuid" json:"uuid"`
	Email         string    `db:"email" json:"email"`
	Address       *string   `db:"address" json:"address,omitempty"`
	City          *string   `db:"city" json:"city,omitempty"`
	State         *string   `db:"state" json:"state,omitempty"`
	Zipcode       *string   `db:"zipcode" json:"zipcode,omitempty"`
	ContactNumber *string   `db:"contact_number" json:"contact_number,omitempty"`
	PrincipalName *string   `db:"principal_name" json:"principal_name,omitempty"`
	SchoolType    *string   `db:"school_type" json:"school_type,omitempty"`

	SubscriptionStartDate *time.Time `db:"subscription_start_date" json:"subscription_start_date,omitempty"`
	SubscriptionEndDate   *time.Time `db:"subscription_end_date" json:"subscription_end_date,omitempty"`

	Active    bool       `db:"is_active" json:"is_active"`
	LastLogin *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// SubscriptionValidOn reports whether today falls inside the subscription
// window. Either bound missing means invalid.
func (s *School) SubscriptionValidOn(today time.Time) bool {
	if s.SubscriptionStartDate == nil || s.SubscriptionEndDate == nil {
		return false
	}
	day := today.Truncate(24 * time.Hour)
	start := s.SubscriptionStartDate.Truncate(24 * time.Hour)
	end := s.SubscriptionEndDate.Truncate(24 * time.Hour)
	return !day.Before(start) && !day.After(end)
}

// IsSubscriptionValid evaluates the subscription window against the current
// UTC date.
func (s *School) IsSubscriptionValid() bool {
	return s.SubscriptionValidOn(time.Now().UTC())
}

// SchoolAdminLink is the 1:1 record binding a school-admin user to a school.
// The school side is unique: a school has exactly one admin account.
type SchoolAdminLink struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	SchoolID  int64     `db:"school_id" json:"school_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
