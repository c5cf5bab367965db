package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ower-flow/sms-be/internal/models"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, is_superuser, is_active, last_login, created_at, updated_at`

// UserRepository provides database access for accounts and their
// role-profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email. Callers normalize the email first.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindRoleProfile resolves the role-specific record for (user, role) with a
// single keyed lookup against the role's table. A missing row yields the
// explicit None profile, not an error.
func (r *UserRepository) FindRoleProfile(ctx context.Context, userID int64, role models.UserRole) (models.RoleProfile, error) {
	none := models.RoleProfile{Kind: models.ProfileNone}

	switch role {
	case models.RoleSchoolAdmin:
		const query = `SELECT id, user_id, school_id, created_at, updated_at FROM school_admins WHERE user_id = $1 LIMIT 1`
		var link models.SchoolAdminLink
		if err := r.db.GetContext(ctx, &link, query, userID); err != nil {
			if err == sql.ErrNoRows {
				return none, nil
			}
			return none, fmt.Errorf("find school admin link: %w", err)
		}
		return models.RoleProfile{Kind: models.ProfileSchoolAdmin, SchoolAdmin: &link}, nil

	case models.RoleTeacher:
		const query = `SELECT id, uuid, user_id, school_id, employee_id, created_at, updated_at FROM teachers WHERE user_id = $1 LIMIT 1`
		var teacher models.Teacher
		if err := r.db.GetContext(ctx, &teacher, query, userID); err != nil {
			if err == sql.ErrNoRows {
				return none, nil
			}
			return none, fmt.Errorf("find teacher profile: %w", err)
		}
		return models.RoleProfile{Kind: models.ProfileTeacher, Teacher: &teacher}, nil

	case models.RoleStudent:
		const query = `SELECT id, user_id, school_id, student_id, created_at, updated_at FROM students WHERE user_id = $1 LIMIT 1`
		var student models.Student
		if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
			if err == sql.ErrNoRows {
				return none, nil
			}
			return none, fmt.Errorf("find student profile: %w", err)
		}
		return models.RoleProfile{Kind: models.ProfileStudent, Student: &student}, nil
	}

	return none, nil
}

// TouchLastLogin stamps last_login on both the user and the school inside one
// transaction. If either write fails, neither is committed.
func (r *UserRepository) TouchLastLogin(ctx context.Context, userID, schoolID int64, ts time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin last login tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1`, userID, ts); err != nil {
		return fmt.Errorf("update user last login: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE schools SET last_login = $2, updated_at = $2 WHERE id = $1`, schoolID, ts); err != nil {
		return fmt.Errorf("update school last login: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit last login tx: %w", err)
	}
	return nil
}
