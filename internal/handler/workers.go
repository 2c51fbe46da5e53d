package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"geo-attendance/internal/apperr"
	"geo-attendance/internal/service"
)

// WorkerHandler serves the worker directory.
type WorkerHandler struct {
	svc *service.EmployeeService
}

func NewWorkerHandler(svc *service.EmployeeService) *WorkerHandler {
	return &WorkerHandler{svc: svc}
}

func (h *WorkerHandler) HandleCreate(c *gin.Context) {
	var in service.EmployeeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, apperr.Validation("request.invalid_body"))
		return
	}
	worker, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, worker)
}

func (h *WorkerHandler) HandleUpdate(c *gin.Context) {
	var up service.EmployeeUpdate
	if err := c.ShouldBindJSON(&up); err != nil {
		writeError(c, apperr.Validation("request.invalid_body"))
		return
	}
	worker, err := h.svc.Update(c.Request.Context(), c.Param("id"), up)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

func (h *WorkerHandler) HandleDelete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message(c, "worker.deleted", nil)})
}

func (h *WorkerHandler) HandleList(c *gin.Context) {
	workers, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workers)
}

func (h *WorkerHandler) HandleGet(c *gin.Context) {
	worker, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, worker)
}
