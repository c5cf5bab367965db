package models

import "time"

// Tenant is the isolated partition owning one school. Tenants are created by
// administrative tooling; the auth core only resolves and reads them.
type Tenant struct {
	ID         int64     `db:"id" json:"id"`
	SchemaName string    `db:"schema_name" json:"schema_name"`
	SchoolID   int64     `db:"school_id" json:"school_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Domain maps a hostname to its tenant.
type Domain struct {
	ID        int64  `db:"id" json:"id"`
	Domain    string `db:"domain" json:"domain"`
	TenantID  int64  `db:"tenant_id" json:"tenant_id"`
	IsPrimary bool   `db:"is_primary" json:"is_primary"`
}

// TenantResolution carries the per-request outcome of resolving the Host
// header. Err records a lookup failure so callers that treat resolution as
// best-effort can ignore exactly that case and nothing else.
type TenantResolution struct {
	Tenant *Tenant
	School *School
	Host   string
	Err    error
}

// Resolved reports whether a tenant was found for the request.
func (r *TenantResolution) Resolved() bool {
	return r != nil && r.Err == nil && r.Tenant != nil
}
