package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/application/service"
	"github.com/intersul/copimanager/internal/domain/workflow"
)

// CreateMaintenanceRequest opens a maintenance case
type CreateMaintenanceRequest struct {
	ClientID           int64  `json:"client_id" binding:"required"`
	MachineID          int64  `json:"machine_id" binding:"required"`
	Type               string `json:"type" binding:"required,maintenancetype"`
	ProblemDescription string `json:"problem_description"`
}

// ListServicesRequest represents query parameters for listing services
type ListServicesRequest struct {
	Type      string `form:"type"`
	ClientID  *int64 `form:"client_id"`
	MachineID *int64 `form:"machine_id"`
}

// UpdateStepStatusRequest moves a step to a new status
type UpdateStepStatusRequest struct {
	Status string  `json:"status" binding:"required,stepstatus"`
	Notes  *string `json:"notes"`
}

// AssignEmployeeRequest assigns a step to an employee
type AssignEmployeeRequest struct {
	EmployeeID int64 `json:"employee_id" binding:"required"`
}

// UpdateStepNotesRequest overwrites a step's notes
type UpdateStepNotesRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// CreateMaintenance handles POST /api/services/maintenance
func (h *Handlers) CreateMaintenance(c *gin.Context) {
	var req CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	svc, err := h.services.Workflow.CreateMaintenance(c.Request.Context(), service.CreateMaintenanceInput{
		ClientID:           req.ClientID,
		MachineID:          req.MachineID,
		Type:               workflow.MaintenanceType(req.Type),
		ProblemDescription: req.ProblemDescription,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondCreated(c, svc)
}

// ListServices handles GET /api/services
func (h *Handlers) ListServices(c *gin.Context) {
	var req ListServicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "invalid query parameters")
		return
	}

	services, err := h.services.Workflow.ListServices(c.Request.Context(), port.ServiceFilter{
		Type:      req.Type,
		ClientID:  req.ClientID,
		MachineID: req.MachineID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, services)
}

// GetService handles GET /api/services/:id
func (h *Handlers) GetService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	svc, err := h.services.Workflow.GetService(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, svc)
}

// DeleteService handles DELETE /api/services/:id
func (h *Handlers) DeleteService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Workflow.DeleteService(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, gin.H{"id": id})
}

// ListSteps handles GET /api/services/:id/steps
func (h *Handlers) ListSteps(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	steps, err := h.services.Workflow.ListSteps(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, steps)
}

// GetStep handles GET /api/steps/:id
func (h *Handlers) GetStep(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	step, err := h.services.Workflow.GetStep(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, step)
}

// UpdateStepStatus handles PATCH /api/steps/:id/status
func (h *Handlers) UpdateStepStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStepStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	step, err := h.services.Workflow.UpdateStepStatus(c.Request.Context(), id, workflow.StepStatus(req.Status), req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, step)
}

// AssignEmployee handles PATCH /api/steps/:id/assign
func (h *Handlers) AssignEmployee(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req AssignEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	step, err := h.services.Workflow.AssignEmployee(c.Request.Context(), id, req.EmployeeID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, step)
}

// UpdateStepNotes handles PATCH /api/steps/:id/notes
func (h *Handlers) UpdateStepNotes(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStepNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	step, err := h.services.Workflow.UpdateNotes(c.Request.Context(), id, req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, step)
}

// ServicesReport handles GET /api/reports/services
func (h *Handlers) ServicesReport(c *gin.Context) {
	var req ListServicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "invalid query parameters")
		return
	}

	data, err := h.services.Report.ServicesReport(c.Request.Context(), port.ServiceFilter{
		Type:      req.Type,
		ClientID:  req.ClientID,
		MachineID: req.MachineID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("services-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
