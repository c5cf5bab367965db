package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ower-flow/sms-be/internal/middleware"
	"github.com/ower-flow/sms-be/internal/models"
	"github.com/ower-flow/sms-be/internal/service"
)

// RegisterRoutes mounts the versioned API on the router. The tenant
// middleware is installed globally by the caller; routes here only add auth
// and scope requirements.
func RegisterRoutes(r *gin.Engine, authService *service.AuthService, teacherService *service.TeacherService) {
	authHandler := NewAuthHandler(authService)
	teacherHandler := NewTeacherHandler(teacherService)

	v1 := r.Group("/api/v1")

	v1.POST("/school/auth/login", authHandler.SchoolLogin)
	v1.POST("/teacher/auth/login", authHandler.TeacherLogin)
	v1.POST("/auth/refresh", authHandler.Refresh)

	authed := v1.Group("")
	authed.Use(middleware.JWT(authService))
	authed.GET("/auth/me", authHandler.Me)

	teachers := authed.Group("/teachers")
	teachers.Use(middleware.RequireRoles(models.RoleSchoolAdmin), middleware.TenantScope())
	teachers.GET("", teacherHandler.List)
	teachers.POST("", teacherHandler.Create)
	teachers.GET("/export", teacherHandler.Export)
	teachers.GET("/:id", teacherHandler.Get)
	teachers.DELETE("/:id", teacherHandler.Deactivate)
}
