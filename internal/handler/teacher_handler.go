package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ower-flow/sms-be/internal/middleware"
	"github.com/ower-flow/sms-be/internal/models"
	"github.com/ower-flow/sms-be/internal/service"
	appErrors "github.com/ower-flow/sms-be/pkg/errors"
	"github.com/ower-flow/sms-be/pkg/response"
)

// TeacherHandler wires the roster service to HTTP routes.
type TeacherHandler struct {
	teachers *service.TeacherService
}

// NewTeacherHandler constructs a new TeacherHandler.
func NewTeacherHandler(teachers *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// schoolID pulls the caller's school from the token claims. Roster routes sit
// behind the tenant scope middleware, so a missing school claim means the
// token was never linked to a school.
func schoolID(c *gin.Context) (int64, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return 0, appErrors.ErrUnauthorized
	}
	if claims.SchoolID == nil {
		return 0, appErrors.ErrNoSchoolForUser
	}
	return *claims.SchoolID, nil
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Param search query string false "Search by name/email/employee id"
// @Param active query bool false "Filter by active status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Security BearerAuth
// @Success 200 {object} models.TeacherListResponse
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	sid, err := schoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := models.TeacherFilter{
		Search: strings.TrimSpace(c.Query("search")),
	}
	if active := c.Query("active"); active != "" {
		switch strings.ToLower(active) {
		case "true":
			val := true
			filter.Active = &val
		case "false":
			val := false
			filter.Active = &val
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	list, err := h.teachers.List(c.Request.Context(), sid, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// Create godoc
// @Summary Create teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body models.CreateTeacherRequest true "Teacher payload"
// @Security BearerAuth
// @Success 201 {object} models.TeacherDetail
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	sid, err := schoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}

	teacher, err := h.teachers.Create(c.Request.Context(), sid, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// Get godoc
// @Summary Get teacher detail
// @Tags Teachers
// @Produce json
// @Param id path int true "Teacher ID"
// @Security BearerAuth
// @Success 200 {object} models.TeacherDetail
// @Failure 404 {object} map[string]string
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	sid, err := schoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid teacher id"))
		return
	}

	teacher, err := h.teachers.Get(c.Request.Context(), sid, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher)
}

// Deactivate godoc
// @Summary Deactivate teacher
// @Tags Teachers
// @Produce json
// @Param id path int true "Teacher ID"
// @Security BearerAuth
// @Success 204 {object} nil
// @Failure 404 {object} map[string]string
// @Router /teachers/{id} [delete]
func (h *TeacherHandler) Deactivate(c *gin.Context) {
	sid, err := schoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid teacher id"))
		return
	}

	if err := h.teachers.Deactivate(c.Request.Context(), sid, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export roster
// @Description Export the school's teacher roster as CSV or PDF
// @Tags Teachers
// @Produce octet-stream
// @Param format query string false "Export format (csv or pdf)"
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Router /teachers/export [get]
func (h *TeacherHandler) Export(c *gin.Context) {
	res := middleware.TenantFromContext(c)
	if res.School == nil {
		response.Error(c, appErrors.ErrNoSchoolForDomain)
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", service.ExportFormatCSV))
	data, contentType, filename, err := h.teachers.Export(c.Request.Context(), res.School, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
