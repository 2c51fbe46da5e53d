package handler

import (
	"github.com/gin-gonic/gin"

	"geo-attendance/internal/auth"
	"geo-attendance/internal/model"
	"geo-attendance/internal/service"
)

// Services bundles what the API routes need.
type Services struct {
	Auth         *service.AuthService
	Attendance   *service.AttendanceService
	Employees    *service.EmployeeService
	Organization *service.OrganizationService
	Tokens       *auth.TokenIssuer
}

// RegisterRoutes mounts the API under api. Role lists are fixed per route.
func RegisterRoutes(api *gin.RouterGroup, s Services) {
	var (
		anyRole     = RequireRoles(s.Tokens, model.RoleAdmin, model.RoleManager, model.RoleEmployee)
		employee    = RequireRoles(s.Tokens, model.RoleEmployee)
		supervisors = RequireRoles(s.Tokens, model.RoleManager, model.RoleAdmin)
		admin       = RequireRoles(s.Tokens, model.RoleAdmin)
	)

	authH := NewAuthHandler(s.Auth)
	api.POST("/auth/login", authH.HandleLogin)

	att := NewAttendanceHandler(s.Attendance)
	api.POST("/checkin", employee, att.HandleCheckin)
	api.GET("/checkin/status", employee, att.HandleStatus)
	api.GET("/checkin/approval", supervisors, att.HandlePending)
	api.POST("/checkin/approval/:id/review", supervisors, att.HandleReview)
	api.GET("/checkin/approval/history", supervisors, att.HandleHistory)
	api.POST("/checkout", anyRole, att.HandleCheckout)
	api.GET("/checkout", supervisors, att.HandleListCheckouts)

	workers := NewWorkerHandler(s.Employees)
	api.GET("/workers", supervisors, workers.HandleList)
	api.GET("/workers/:id", supervisors, workers.HandleGet)
	api.POST("/workers", admin, workers.HandleCreate)
	api.PUT("/workers/:id", admin, workers.HandleUpdate)
	api.DELETE("/workers/:id", admin, workers.HandleDelete)

	org := NewOrganizationHandler(s.Organization)
	api.GET("/departments", anyRole, org.HandleListDepartments)
	api.POST("/departments", supervisors, org.HandleCreateDepartment)
	api.GET("/departments/:id/tasks", anyRole, org.HandleDepartmentTasks)
	api.DELETE("/departments/:id", supervisors, org.HandleDeleteDepartment)

	api.GET("/teams", anyRole, org.HandleListTeams)
	api.POST("/teams", supervisors, org.HandleCreateTeam)
	api.GET("/teams/:id", anyRole, org.HandleGetTeam)
	api.PUT("/teams/:id", supervisors, org.HandleUpdateTeam)
	api.DELETE("/teams/:id", supervisors, org.HandleDeleteTeam)

	api.GET("/zones", anyRole, org.HandleListZones)
	api.POST("/zones", supervisors, org.HandleAssignZone)
}
