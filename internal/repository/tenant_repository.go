package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ower-flow/sms-be/internal/models"
)

// TenantRepository resolves domains to tenants. Tenants and their domain
// bindings are created by administrative tooling, so this is read-only.
type TenantRepository struct {
	db *sqlx.DB
}

// NewTenantRepository creates a new instance of TenantRepository.
func NewTenantRepository(db *sqlx.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// FindByDomain returns the tenant bound to the given hostname.
func (r *TenantRepository) FindByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	const query = `SELECT t.id, t.schema_name, t.school_id, t.created_at
		FROM tenants t
		JOIN domains d ON d.tenant_id = t.id
		WHERE d.domain = $1
		LIMIT 1`
	var tenant models.Tenant
	if err := r.db.GetContext(ctx, &tenant, query, domain); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find tenant by domain: %w", err)
	}
	return &tenant, nil
}
