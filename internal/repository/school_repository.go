package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ower-flow/sms-be/internal/models"
)

const schoolColumns = `id, name, unique_id, uuid, email, address, city, state, zipcode, contact_number, principal_name, school_type, subscription_start_date, subscription_end_date, is_active, last_login, created_at, updated_at`

// SchoolRepository provides read access to school records. The auth core
// never mutates schools beyond the transactional last_login stamp.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository creates a new instance of SchoolRepository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// FindByID returns a school by identifier.
func (r *SchoolRepository) FindByID(ctx context.Context, id int64) (*models.School, error) {
	query := fmt.Sprintf(`SELECT %s FROM schools WHERE id = $1 LIMIT 1`, schoolColumns)
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find school by id: %w", err)
	}
	return &school, nil
}
