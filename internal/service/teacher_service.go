package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ower-flow/sms-be/internal/models"
	appErrors "github.com/ower-flow/sms-be/pkg/errors"
	"github.com/ower-flow/sms-be/pkg/export"
)

type teacherRosterRepository interface {
	ListBySchool(ctx context.Context, schoolID int64, filter models.TeacherFilter) ([]models.Teacher, int, error)
	AllBySchool(ctx context.Context, schoolID int64) ([]models.Teacher, error)
	FindByIDInSchool(ctx context.Context, id, schoolID int64) (*models.Teacher, error)
	CreateWithUser(ctx context.Context, user *models.User, schoolID int64, employeeID string) (*models.Teacher, error)
	Deactivate(ctx context.Context, id, schoolID int64) error
}

type rosterUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Export formats supported by the roster export endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// TeacherService manages a school's teacher roster. Every operation is
// scoped to the caller's school; cross-tenant access is rejected before the
// service is reached.
type TeacherService struct {
	teachers  teacherRosterRepository
	users     rosterUserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService instance.
func NewTeacherService(teachers teacherRosterRepository, users rosterUserRepository, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TeacherService{teachers: teachers, users: users, validator: validate, logger: logger}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Create provisions the user account and the teacher profile atomically. The
// raw password is hashed exactly once, here, before anything is stored.
func (s *TeacherService) Create(ctx context.Context, schoolID int64, req models.CreateTeacherRequest) (*models.TeacherDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	email := models.NormalizeEmail(req.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "A user with this email already exists.")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	teacher, err := s.teachers.CreateWithUser(ctx, user, schoolID, req.EmployeeID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "A teacher with this employee ID already exists for this school.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}

	detail := teacherDetail(teacher)
	return &detail, nil
}

// List returns a page of the school's roster.
func (s *TeacherService) List(ctx context.Context, schoolID int64, filter models.TeacherFilter) (*models.TeacherListResponse, error) {
	teachers, total, err := s.teachers.ListBySchool(ctx, schoolID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	details := make([]models.TeacherDetail, 0, len(teachers))
	for i := range teachers {
		details = append(details, teacherDetail(&teachers[i]))
	}
	return &models.TeacherListResponse{Teachers: details, Total: total, Page: page, PageSize: pageSize}, nil
}

// Get returns one roster entry.
func (s *TeacherService) Get(ctx context.Context, schoolID, id int64) (*models.TeacherDetail, error) {
	teacher, err := s.teachers.FindByIDInSchool(ctx, id, schoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	detail := teacherDetail(teacher)
	return &detail, nil
}

// Deactivate marks the teacher's account inactive; the profile and its
// history stay in place.
func (s *TeacherService) Deactivate(ctx context.Context, schoolID, id int64) error {
	if err := s.teachers.Deactivate(ctx, id, schoolID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate teacher")
	}
	return nil
}

// Export renders the full roster in the requested format and returns the
// bytes with their content type and a dated filename.
func (s *TeacherService) Export(ctx context.Context, school *models.School, format string) ([]byte, string, string, error) {
	teachers, err := s.teachers.AllBySchool(ctx, school.ID)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	table := export.Table{
		Title:   fmt.Sprintf("%s Teacher Roster", school.Name),
		Columns: []string{"Employee ID", "Full Name", "Email", "Status"},
	}
	for i := range teachers {
		t := &teachers[i]
		status := "active"
		if !t.UserActive {
			status = "inactive"
		}
		table.AddRow(t.EmployeeID, t.FullName(), t.Email, status)
	}

	stamp := time.Now().UTC().Format("2006-01-02")
	switch format {
	case ExportFormatCSV:
		data, err := export.CSV(table)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, "text/csv", fmt.Sprintf("teachers-%s-%s.csv", school.UniqueID, stamp), nil
	case ExportFormatPDF:
		data, err := export.PDF(table)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, "application/pdf", fmt.Sprintf("teachers-%s-%s.pdf", school.UniqueID, stamp), nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func teacherDetail(t *models.Teacher) models.TeacherDetail {
	return models.TeacherDetail{
		ID:         t.ID,
		EmployeeID: t.EmployeeID,
		Email:      t.Email,
		FirstName:  t.FirstName,
		LastName:   t.LastName,
		FullName:   t.FullName(),
		Active:     t.UserActive,
	}
}
