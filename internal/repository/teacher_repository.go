package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ower-flow/sms-be/internal/models"
)

const teacherColumns = `t.id, t.uuid, t.user_id, t.school_id, t.employee_id, t.created_at, t.updated_at,
	u.email, u.first_name, u.last_name, u.is_active AS user_active`

// TeacherRepository provides database access to the school-scoped teacher
// roster.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository creates a new instance of TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindByUserAndSchool returns the teacher profile linking the user to the
// school, if any.
func (r *TeacherRepository) FindByUserAndSchool(ctx context.Context, userID, schoolID int64) (*models.Teacher, error) {
	query := fmt.Sprintf(`SELECT %s FROM teachers t JOIN users u ON u.id = t.user_id WHERE t.user_id = $1 AND t.school_id = $2 LIMIT 1`, teacherColumns)
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, userID, schoolID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher by user and school: %w", err)
	}
	return &teacher, nil
}

// FindByIDInSchool returns a teacher by id, scoped to the school.
func (r *TeacherRepository) FindByIDInSchool(ctx context.Context, id, schoolID int64) (*models.Teacher, error) {
	query := fmt.Sprintf(`SELECT %s FROM teachers t JOIN users u ON u.id = t.user_id WHERE t.id = $1 AND t.school_id = $2 LIMIT 1`, teacherColumns)
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id, schoolID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher by id: %w", err)
	}
	return &teacher, nil
}

// ListBySchool returns the school's roster with total count.
func (r *TeacherRepository) ListBySchool(ctx context.Context, schoolID int64, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	baseQuery := `FROM teachers t JOIN users u ON u.id = t.user_id WHERE t.school_id = $1`
	args := []interface{}{schoolID}

	if filter.Search != "" {
		baseQuery += fmt.Sprintf(" AND (LOWER(u.email) LIKE $%d OR LOWER(u.first_name || ' ' || u.last_name) LIKE $%d OR LOWER(t.employee_id) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Active != nil {
		baseQuery += fmt.Sprintf(" AND u.is_active = $%d", len(args)+1)
		args = append(args, *filter.Active)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY u.first_name, u.last_name LIMIT %d OFFSET %d", teacherColumns, baseQuery, pageSize, offset)

	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}

	return teachers, total, nil
}

// AllBySchool returns the complete roster for export, ordered by name.
func (r *TeacherRepository) AllBySchool(ctx context.Context, schoolID int64) ([]models.Teacher, error) {
	query := fmt.Sprintf(`SELECT %s FROM teachers t JOIN users u ON u.id = t.user_id WHERE t.school_id = $1 ORDER BY u.first_name, u.last_name`, teacherColumns)
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, schoolID); err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return teachers, nil
}

// CreateWithUser inserts the account and the teacher profile in one
// transaction. The caller supplies user.PasswordHash already hashed.
func (r *TeacherRepository) CreateWithUser(ctx context.Context, user *models.User, schoolID int64, employeeID string) (*models.Teacher, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create teacher tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	const insertUser = `INSERT INTO users (email, password_hash, first_name, last_name, role, is_superuser, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, TRUE, $6, $6)
		RETURNING id`
	role := models.RoleTeacher
	if err := tx.GetContext(ctx, &user.ID, insertUser, user.Email, user.PasswordHash, user.FirstName, user.LastName, role, now); err != nil {
		return nil, fmt.Errorf("insert teacher user: %w", err)
	}
	user.Role = &role
	user.Active = true
	user.CreatedAt = now
	user.UpdatedAt = now

	teacher := &models.Teacher{
		UUID:       uuid.New(),
		UserID:     user.ID,
		SchoolID:   schoolID,
		EmployeeID: employeeID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		UserActive: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	const insertTeacher = `INSERT INTO teachers (uuid, user_id, school_id, employee_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id`
	if err := tx.GetContext(ctx, &teacher.ID, insertTeacher, teacher.UUID, teacher.UserID, teacher.SchoolID, teacher.EmployeeID, now); err != nil {
		return nil, fmt.Errorf("insert teacher profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create teacher tx: %w", err)
	}
	return teacher, nil
}

// Deactivate soft-deletes a roster entry by marking the linked account
// inactive.
func (r *TeacherRepository) Deactivate(ctx context.Context, id, schoolID int64) error {
	const query = `UPDATE users SET is_active = FALSE, updated_at = $3
		WHERE id = (SELECT user_id FROM teachers WHERE id = $1 AND school_id = $2)`
	res, err := r.db.ExecContext(ctx, query, id, schoolID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate teacher: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate teacher rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
