package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ower-flow/sms-be/internal/models"
	appErrors "github.com/ower-flow/sms-be/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindRoleProfile(ctx context.Context, userID int64, role models.UserRole) (models.RoleProfile, error)
	TouchLastLogin(ctx context.Context, userID, schoolID int64, ts time.Time) error
}

type authSchoolRepository interface {
	FindByID(ctx context.Context, id int64) (*models.School, error)
}

type authTeacherRepository interface {
	FindByUserAndSchool(ctx context.Context, userID, schoolID int64) (*models.Teacher, error)
}

type loginAttemptCounter interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

type loginObserver interface {
	RecordLoginAttempt(flow, outcome string)
}

// AuthConfig defines configuration for the authentication flows.
type AuthConfig struct {
	Secret         string
	Issuer         string
	AccessExpiry   time.Duration
	RefreshExpiry  time.Duration
	ThrottleLimit  int
	ThrottleWindow time.Duration
}

// AuthService implements tenant-aware credential validation and token
// issuance. Each login flow runs its checks in a fixed order; the order
// decides which denial a probe observes and must not be rearranged.
type AuthService struct {
	users     authUserRepository
	schools   authSchoolRepository
	teachers  authTeacherRepository
	attempts  loginAttemptCounter
	metrics   loginObserver
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig

	now func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, schools authSchoolRepository, teachers authTeacherRepository, attempts loginAttemptCounter, metrics loginObserver, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{
		users:     users,
		schools:   schools,
		teachers:  teachers,
		attempts:  attempts,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SchoolAdminLogin authenticates a school admin against the school resolved
// from the request's domain.
func (s *AuthService) SchoolAdminLogin(ctx context.Context, req models.AdminLoginRequest, res *models.TenantResolution) (*models.AdminLoginResponse, error) {
	resp, err := s.schoolAdminLogin(ctx, req, res)
	s.observe("schooladmin", err)
	return resp, err
}

func (s *AuthService) schoolAdminLogin(ctx context.Context, req models.AdminLoginRequest, res *models.TenantResolution) (*models.AdminLoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	email := models.NormalizeEmail(req.Email)

	if err := s.consumeAttempt(ctx, res, email, req.IP); err != nil {
		return nil, err
	}

	if res != nil && res.Err != nil {
		return nil, appErrors.Wrap(res.Err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "tenant resolution failed")
	}
	if res == nil || res.Tenant == nil || res.School == nil {
		return nil, appErrors.ErrNoSchoolForDomain
	}
	school := res.School

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if !user.Active {
		return nil, appErrors.ErrInactiveUser
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	if !user.HasRole(models.RoleSchoolAdmin) {
		return nil, appErrors.ErrNotSchoolAdmin
	}

	profile, err := s.users.FindRoleProfile(ctx, user.ID, models.RoleSchoolAdmin)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch role profile")
	}
	if profile.SchoolAdmin == nil {
		return nil, appErrors.ErrNoSchoolForUser
	}

	if !school.Active {
		return nil, appErrors.ErrInactiveSchool
	}

	if profile.SchoolAdmin.SchoolID != school.ID {
		return nil, appErrors.ErrWrongDomain
	}

	if !school.SubscriptionValidOn(s.now()) {
		return nil, appErrors.ErrExpiredSubscription
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, school.ID, s.now()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update last login")
	}

	domain := res.Host
	tokens, err := s.issueTokenPair(user, school, profile, &domain)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue tokens")
	}

	return &models.AdminLoginResponse{
		School: schoolInfo(school, s.now()),
		User:   models.UserInfo{ID: user.ID, Email: user.Email, Role: user.Role},
		Tokens: tokens,
	}, nil
}

// TeacherLogin authenticates a teacher against an explicitly supplied school.
// Tenant context is optional here: a failed resolution is ignored, but a
// successfully resolved school that disagrees with the supplied school id is
// rejected.
func (s *AuthService) TeacherLogin(ctx context.Context, req models.TeacherLoginRequest, res *models.TenantResolution) (*models.TeacherLoginResponse, error) {
	resp, err := s.teacherLogin(ctx, req, res)
	s.observe("teacher", err)
	return resp, err
}

func (s *AuthService) teacherLogin(ctx context.Context, req models.TeacherLoginRequest, res *models.TenantResolution) (*models.TeacherLoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	email := models.NormalizeEmail(req.Email)

	if err := s.consumeAttempt(ctx, res, email, req.IP); err != nil {
		return nil, err
	}

	school, err := s.schools.FindByID(ctx, req.SchoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrSchoolNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch school")
	}

	if res != nil && res.Err == nil && res.School != nil && res.School.ID != school.ID {
		return nil, appErrors.ErrTenantMismatch
	}

	if !school.Active {
		return nil, appErrors.ErrInactiveSchool
	}

	if !school.SubscriptionValidOn(s.now()) {
		return nil, appErrors.ErrExpiredSubscription
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if !user.Active {
		return nil, appErrors.ErrInactiveUser
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	if !user.HasRole(models.RoleTeacher) {
		return nil, appErrors.ErrNotTeacher
	}

	teacher, err := s.teachers.FindByUserAndSchool(ctx, user.ID, school.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrTeacherNotInSchool
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch teacher profile")
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, school.ID, s.now()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update last login")
	}

	profile := models.RoleProfile{Kind: models.ProfileTeacher, Teacher: teacher}
	var domain *string
	if res.Resolved() {
		domain = &res.Host
	}
	tokens, err := s.issueTokenPair(user, school, profile, domain)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue tokens")
	}

	return &models.TeacherLoginResponse{
		School: schoolInfo(school, s.now()),
		Teacher: models.TeacherInfo{
			ID:         teacher.ID,
			EmployeeID: teacher.EmployeeID,
			Email:      teacher.Email,
			FullName:   teacher.FullName(),
		},
		User:   models.UserInfo{ID: user.ID, Email: user.Email, Role: user.Role},
		Tokens: tokens,
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair carrying the same
// tenant claims. Expiry is the only invalidation mechanism; there is no
// revocation list.
func (s *AuthService) Refresh(ctx context.Context, req models.RefreshRequest) (*models.TokenPair, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid refresh payload")
	}

	claims, err := s.parseToken(req.Refresh, models.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if !user.Active {
		return nil, appErrors.ErrInactiveUser
	}

	pair, err := s.signPair(baseClaims{
		userID:         claims.UserID,
		role:           claims.Role,
		schoolID:       claims.SchoolID,
		schoolUniqueID: claims.SchoolUniqueID,
		domain:         claims.Domain,
		teacherID:      claims.TeacherID,
		employeeID:     claims.EmployeeID,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue tokens")
	}
	return &pair, nil
}

// Authenticate validates an access token and loads its subject, enforcing
// the live account gates: the user must exist, be active, and not be a
// superuser.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, *models.JWTClaims, error) {
	claims, err := s.parseToken(tokenString, models.TokenTypeAccess)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if !user.Active || user.IsSuperuser {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	return user, claims, nil
}

func (s *AuthService) consumeAttempt(ctx context.Context, res *models.TenantResolution, email, ip string) error {
	if s.attempts == nil || s.config.ThrottleLimit <= 0 {
		return nil
	}

	tenantID := ""
	if res.Resolved() {
		tenantID = strconv.FormatInt(res.Tenant.ID, 10)
	}

	count, err := s.attempts.Increment(ctx, throttleKey(tenantID, email, ip), s.config.ThrottleWindow)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count login attempt")
	}
	if count > int64(s.config.ThrottleLimit) {
		return appErrors.ErrRateLimited
	}
	return nil
}

func throttleKey(tenantID, email, ip string) string {
	if tenantID == "" {
		tenantID = "public"
	}
	return fmt.Sprintf("login:%s:%s:%s", tenantID, email, ip)
}

type baseClaims struct {
	userID         int64
	role           *models.UserRole
	schoolID       *int64
	schoolUniqueID *string
	domain         *string
	teacherID      *int64
	employeeID     *string
}

func (s *AuthService) issueTokenPair(user *models.User, school *models.School, profile models.RoleProfile, domain *string) (models.TokenPair, error) {
	base := baseClaims{
		userID:         user.ID,
		role:           user.Role,
		schoolID:       &school.ID,
		schoolUniqueID: &school.UniqueID,
		domain:         domain,
	}
	if profile.Teacher != nil {
		base.teacherID = &profile.Teacher.ID
		base.employeeID = &profile.Teacher.EmployeeID
	}
	return s.signPair(base)
}

func (s *AuthService) signPair(base baseClaims) (models.TokenPair, error) {
	refresh, err := s.sign(base, models.TokenTypeRefresh, s.config.RefreshExpiry)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	access, err := s.sign(base, models.TokenTypeAccess, s.config.AccessExpiry)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	return models.TokenPair{Refresh: refresh, Access: access}, nil
}

func (s *AuthService) sign(base baseClaims, tokenType string, expiry time.Duration) (string, error) {
	issuedAt := s.now()
	claims := &models.JWTClaims{
		TokenType:      tokenType,
		UserID:         base.userID,
		Role:           base.role,
		SchoolID:       base.schoolID,
		SchoolUniqueID: base.schoolUniqueID,
		Domain:         base.domain,
		TeacherID:      base.teacherID,
		EmployeeID:     base.employeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(base.userID, 10),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *AuthService) parseToken(tokenString, wantType string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.TokenType != wantType {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token type")
	}

	return claims, nil
}

func (s *AuthService) observe(flow string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = appErrors.FromError(err).Code
	}
	s.metrics.RecordLoginAttempt(flow, outcome)
}

func schoolInfo(school *models.School, now time.Time) models.SchoolInfo {
	return models.SchoolInfo{
		ID:                school.ID,
		Name:              school.Name,
		UniqueID:          school.UniqueID,
		SubscriptionValid: school.SubscriptionValidOn(now),
	}
}
