package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ower-flow/sms-be/internal/middleware"
	"github.com/ower-flow/sms-be/internal/models"
	"github.com/ower-flow/sms-be/internal/service"
	appErrors "github.com/ower-flow/sms-be/pkg/errors"
	"github.com/ower-flow/sms-be/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// SchoolLogin godoc
// @Summary Authenticate school admin
// @Description Authenticate a school admin against the school bound to the request domain
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.AdminLoginRequest true "Login payload"
// @Success 200 {object} models.AdminLoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /school/auth/login [post]
func (h *AuthHandler) SchoolLogin(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()

	res, err := h.service.SchoolAdminLogin(c.Request.Context(), req, middleware.TenantFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// TeacherLogin godoc
// @Summary Authenticate teacher
// @Description Authenticate a teacher against an explicit school id
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.TeacherLoginRequest true "Login payload"
// @Success 200 {object} models.TeacherLoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /teacher/auth/login [post]
func (h *AuthHandler) TeacherLogin(c *gin.Context) {
	var req models.TeacherLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()

	res, err := h.service.TeacherLogin(c.Request.Context(), req, middleware.TenantFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Refresh godoc
// @Summary Refresh token pair
// @Description Exchange a refresh token for a new access and refresh pair
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RefreshRequest true "Refresh payload"
// @Success 200 {object} models.TokenPair
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid refresh payload"))
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, pair)
}

// Me godoc
// @Summary Current account
// @Description Describe the authenticated account and its tenant context
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.MeResponse
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := userFromContext(c)
	claims := claimsFromContext(c)
	if user == nil || claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	response.JSON(c, http.StatusOK, models.MeResponse{
		User:           models.UserInfo{ID: user.ID, Email: user.Email, Role: user.Role},
		SchoolID:       claims.SchoolID,
		SchoolUniqueID: claims.SchoolUniqueID,
		Domain:         claims.Domain,
		TeacherID:      claims.TeacherID,
		EmployeeID:     claims.EmployeeID,
	})
}
