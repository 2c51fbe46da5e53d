package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"geo-attendance/internal/apperr"
	"geo-attendance/internal/service"
)

// OrganizationHandler serves departments, teams and zones.
type OrganizationHandler struct {
	svc *service.OrganizationService
}

func NewOrganizationHandler(svc *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{svc: svc}
}

func (h *OrganizationHandler) HandleListDepartments(c *gin.Context) {
	departments, err := h.svc.ListDepartments(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}

func (h *OrganizationHandler) HandleCreateDepartment(c *gin.Context) {
	var in service.DepartmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, apperr.Validation("request.invalid_body"))
		return
	}
	d, err := h.svc.CreateDepartment(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *OrganizationHandler) HandleDepartmentTasks(c *gin.Context) {
	tasks, err := h.svc.DepartmentTasks(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *OrganizationHandler) HandleDeleteDepartment(c *gin.Context) {
	if err := h.svc.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message(c, "department.deleted", nil)})
}

func (h *OrganizationHandler) HandleListTeams(c *gin.Context) {
	teams, err := h.svc.ListTeams(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

func (h *OrganizationHandler) HandleCreateTeam(c *gin.Context) {
	var in service.TeamInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, apperr.Validation("request.invalid_body"))
		return
	}
	t, err := h.svc.CreateTeam(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *OrganizationHandler) HandleGetTeam(c *gin.Context) {
	t, err := h.svc.GetTeam(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *OrganizationHandler) HandleUpdateTeam(c *gin.Context) {
	var in service.TeamInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, apperr.Validation("request.invalid_body"))
		return
	}
	t, err := h.svc.UpdateTeam(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *OrganizationHandler) HandleDeleteTeam(c *gin.Context) {
	if err := h.svc.DeleteTeam(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message(c, "team.deleted", nil)})
}

func (h *OrganizationHandler) HandleListZones(c *gin.Context) {
	zones, err := h.svc.ListZones(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, zones)
}

// HandleAssignZone assigns a team to a zone, creating the zone if needed.
func (h *OrganizationHandler) HandleAssignZone(c *gin.Context) {
	var in service.ZoneAssignment
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, apperr.Validation("request.invalid_body"))
		return
	}
	z, err := h.svc.AssignZone(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message(c, "zone.assigned", map[string]any{"Zone": z.Name}),
		"zone":    z,
	})
}
