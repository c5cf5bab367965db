package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	internalmiddleware "github.com/ower-flow/sms-be/internal/middleware"
	"github.com/ower-flow/sms-be/internal/models"
	"github.com/ower-flow/sms-be/internal/service"
)

type stubUserRepo struct {
	usersByEmail map[string]*models.User
	usersByID    map[int64]*models.User
	profiles     map[int64]models.RoleProfile
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.usersByEmail[email]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if user, ok := s.usersByID[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) FindRoleProfile(ctx context.Context, userID int64, role models.UserRole) (models.RoleProfile, error) {
	if profile, ok := s.profiles[userID]; ok {
		return profile, nil
	}
	return models.RoleProfile{Kind: models.ProfileNone}, nil
}

func (s *stubUserRepo) TouchLastLogin(ctx context.Context, userID, schoolID int64, ts time.Time) error {
	return nil
}

type stubSchoolRepo struct {
	schools map[int64]*models.School
}

func (s *stubSchoolRepo) FindByID(ctx context.Context, id int64) (*models.School, error) {
	if school, ok := s.schools[id]; ok {
		cp := *school
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type stubTeacherProfileRepo struct {
	teachers []*models.Teacher
}

func (s *stubTeacherProfileRepo) FindByUserAndSchool(ctx context.Context, userID, schoolID int64) (*models.Teacher, error) {
	for _, teacher := range s.teachers {
		if teacher.UserID == userID && teacher.SchoolID == schoolID {
			cp := *teacher
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

type stubTenantRepo struct {
	tenants map[string]*models.Tenant
}

func (s *stubTenantRepo) FindByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	if tenant, ok := s.tenants[domain]; ok {
		cp := *tenant
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type stubRosterRepo struct {
	roster []models.Teacher
}

func (s *stubRosterRepo) ListBySchool(ctx context.Context, schoolID int64, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	var out []models.Teacher
	for _, teacher := range s.roster {
		if teacher.SchoolID == schoolID {
			out = append(out, teacher)
		}
	}
	return out, len(out), nil
}

func (s *stubRosterRepo) AllBySchool(ctx context.Context, schoolID int64) ([]models.Teacher, error) {
	out, _, err := s.ListBySchool(ctx, schoolID, models.TeacherFilter{})
	return out, err
}

func (s *stubRosterRepo) FindByIDInSchool(ctx context.Context, id, schoolID int64) (*models.Teacher, error) {
	for _, teacher := range s.roster {
		if teacher.ID == id && teacher.SchoolID == schoolID {
			cp := teacher
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubRosterRepo) CreateWithUser(ctx context.Context, user *models.User, schoolID int64, employeeID string) (*models.Teacher, error) {
	teacher := models.Teacher{ID: 42, UserID: 99, SchoolID: schoolID, EmployeeID: employeeID, Email: user.Email}
	s.roster = append(s.roster, teacher)
	return &teacher, nil
}

func (s *stubRosterRepo) Deactivate(ctx context.Context, id, schoolID int64) error {
	return nil
}

type gatewayFixture struct {
	router *gin.Engine
	users  *stubUserRepo
}

func buildGateway(t *testing.T) *gatewayFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	adminRole := models.RoleSchoolAdmin
	teacherRole := models.RoleTeacher

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin-password"), bcrypt.MinCost)
	require.NoError(t, err)
	teacherHash, err := bcrypt.GenerateFromPassword([]byte("teacher-password"), bcrypt.MinCost)
	require.NoError(t, err)

	start := time.Now().UTC().AddDate(0, -1, 0)
	end := time.Now().UTC().AddDate(1, 0, 0)
	northside := &models.School{ID: 7, Name: "Northside High", UniqueID: "NH-001", Active: true, SubscriptionStartDate: &start, SubscriptionEndDate: &end}
	southside := &models.School{ID: 8, Name: "Southside High", UniqueID: "SH-001", Active: true, SubscriptionStartDate: &start, SubscriptionEndDate: &end}

	admin := &models.User{ID: 1, Email: "admin@northside.edu", PasswordHash: string(adminHash), Role: &adminRole, Active: true}
	teacher := &models.User{ID: 2, Email: "dana@northside.edu", PasswordHash: string(teacherHash), FirstName: "Dana", LastName: "Whitfield", Role: &teacherRole, Active: true}

	users := &stubUserRepo{
		usersByEmail: map[string]*models.User{admin.Email: admin, teacher.Email: teacher},
		usersByID:    map[int64]*models.User{admin.ID: admin, teacher.ID: teacher},
		profiles: map[int64]models.RoleProfile{
			admin.ID: {Kind: models.ProfileSchoolAdmin, SchoolAdmin: &models.SchoolAdminLink{ID: 11, UserID: admin.ID, SchoolID: northside.ID}},
		},
	}
	schools := &stubSchoolRepo{schools: map[int64]*models.School{northside.ID: northside, southside.ID: southside}}
	teacherProfiles := &stubTeacherProfileRepo{teachers: []*models.Teacher{
		{ID: 21, UserID: teacher.ID, SchoolID: northside.ID, EmployeeID: "EMP-0021", Email: teacher.Email, FirstName: "Dana", LastName: "Whitfield", UserActive: true},
	}}
	tenants := &stubTenantRepo{tenants: map[string]*models.Tenant{
		"northside.example.com": {ID: 3, SchemaName: "northside", SchoolID: northside.ID},
		"southside.example.com": {ID: 4, SchemaName: "southside", SchoolID: southside.ID},
	}}

	authService := service.NewAuthService(users, schools, teacherProfiles, nil, nil, validator.New(), zap.NewNop(), service.AuthConfig{
		Secret:        "gateway-test-secret",
		Issuer:        "sms-be",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})
	tenantService := service.NewTenantService(tenants, schools, nil, time.Minute, nil, zap.NewNop())
	teacherService := service.NewTeacherService(&stubRosterRepo{roster: []models.Teacher{
		{ID: 21, UserID: teacher.ID, SchoolID: northside.ID, EmployeeID: "EMP-0021", Email: teacher.Email, FirstName: "Dana", LastName: "Whitfield", UserActive: true},
	}}, users, validator.New(), zap.NewNop())

	router := gin.New()
	router.Use(internalmiddleware.Tenant(tenantService, zap.NewNop()))
	RegisterRoutes(router, authService, teacherService)

	return &gatewayFixture{router: router, users: users}
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func jsonRequest(t *testing.T, method, target, host string, payload interface{}) *http.Request {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if host != "" {
		req.Host = host
	}
	return req
}

func adminLogin(t *testing.T, fixture *gatewayFixture) models.AdminLoginResponse {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, "/api/v1/school/auth/login", "northside.example.com", gin.H{
		"email":    "admin@northside.edu",
		"password": "admin-password",
	})
	resp := performRequest(fixture.router, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out models.AdminLoginResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func TestSchoolLoginEndpoint(t *testing.T) {
	fixture := buildGateway(t)

	t.Run("success", func(t *testing.T) {
		out := adminLogin(t, fixture)
		assert.Equal(t, int64(7), out.School.ID)
		assert.NotEmpty(t, out.Tokens.Access)
		assert.NotEmpty(t, out.Tokens.Refresh)
	})

	t.Run("wrong password", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/v1/school/auth/login", "northside.example.com", gin.H{
			"email":    "admin@northside.edu",
			"password": "wrong",
		})
		resp := performRequest(fixture.router, req)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.JSONEq(t, `{"detail": "Invalid email or password."}`, resp.Body.String())
	})

	t.Run("unknown host", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/v1/school/auth/login", "unknown.example.com", gin.H{
			"email":    "admin@northside.edu",
			"password": "admin-password",
		})
		resp := performRequest(fixture.router, req)
		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.JSONEq(t, `{"detail": "No school is linked to this domain."}`, resp.Body.String())
	})

	t.Run("malformed payload", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/v1/school/auth/login", "northside.example.com", gin.H{
			"email": "admin@northside.edu",
		})
		resp := performRequest(fixture.router, req)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestTeacherLoginEndpoint(t *testing.T) {
	fixture := buildGateway(t)

	t.Run("success without tenant host", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/v1/teacher/auth/login", "", gin.H{
			"email":     "dana@northside.edu",
			"password":  "teacher-password",
			"school_id": 7,
		})
		resp := performRequest(fixture.router, req)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		var out models.TeacherLoginResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
		assert.Equal(t, "EMP-0021", out.Teacher.EmployeeID)
	})

	t.Run("host bound to a different school", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/v1/teacher/auth/login", "southside.example.com", gin.H{
			"email":     "dana@northside.edu",
			"password":  "teacher-password",
			"school_id": 7,
		})
		resp := performRequest(fixture.router, req)
		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.JSONEq(t, `{"detail": "School ID does not match the current tenant's school."}`, resp.Body.String())
	})

	t.Run("not a member of the school", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/v1/teacher/auth/login", "", gin.H{
			"email":     "dana@northside.edu",
			"password":  "teacher-password",
			"school_id": 8,
		})
		resp := performRequest(fixture.router, req)
		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.JSONEq(t, `{"detail": "This teacher is not associated with the specified school."}`, resp.Body.String())
	})
}

func TestRefreshAndMeEndpoints(t *testing.T) {
	fixture := buildGateway(t)
	login := adminLogin(t, fixture)

	t.Run("refresh", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh": login.Tokens.Refresh})
		resp := performRequest(fixture.router, req)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		var pair models.TokenPair
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &pair))
		assert.NotEmpty(t, pair.Access)
	})

	t.Run("me requires token", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/v1/auth/me", "", nil)
		resp := performRequest(fixture.router, req)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("me", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/v1/auth/me", "", nil)
		req.Header.Set("Authorization", "Bearer "+login.Tokens.Access)
		resp := performRequest(fixture.router, req)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		var me models.MeResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &me))
		assert.Equal(t, "admin@northside.edu", me.User.Email)
		require.NotNil(t, me.SchoolID)
		assert.Equal(t, int64(7), *me.SchoolID)
	})
}

func TestTeacherRoutesAccessControl(t *testing.T) {
	fixture := buildGateway(t)
	login := adminLogin(t, fixture)

	teacherLoginReq := jsonRequest(t, http.MethodPost, "/api/v1/teacher/auth/login", "", gin.H{
		"email":     "dana@northside.edu",
		"password":  "teacher-password",
		"school_id": 7,
	})
	teacherResp := performRequest(fixture.router, teacherLoginReq)
	require.Equal(t, http.StatusOK, teacherResp.Code)
	var teacherLogin models.TeacherLoginResponse
	require.NoError(t, json.Unmarshal(teacherResp.Body.Bytes(), &teacherLogin))

	t.Run("admin lists roster on own host", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/v1/teachers", "northside.example.com", nil)
		req.Header.Set("Authorization", "Bearer "+login.Tokens.Access)
		resp := performRequest(fixture.router, req)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		var list models.TeacherListResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
		require.Len(t, list.Teachers, 1)
		assert.Equal(t, "EMP-0021", list.Teachers[0].EmployeeID)
	})

	t.Run("teacher role is rejected", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/v1/teachers", "northside.example.com", nil)
		req.Header.Set("Authorization", "Bearer "+teacherLogin.Tokens.Access)
		resp := performRequest(fixture.router, req)
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("admin token on an unbound host is rejected", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/v1/teachers", "203.0.113.9", nil)
		req.Header.Set("Authorization", "Bearer "+login.Tokens.Access)
		resp := performRequest(fixture.router, req)
		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.JSONEq(t, `{"detail": "You are not authorized for this tenant/domain."}`, resp.Body.String())
	})

	t.Run("admin token on a foreign host is rejected", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/v1/teachers", "southside.example.com", nil)
		req.Header.Set("Authorization", "Bearer "+login.Tokens.Access)
		resp := performRequest(fixture.router, req)
		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.JSONEq(t, `{"detail": "You are not authorized for this tenant/domain."}`, resp.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/v1/teachers", "northside.example.com", nil)
		resp := performRequest(fixture.router, req)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}
