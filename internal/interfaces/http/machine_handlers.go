package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/intersul/copimanager/internal/application/service"
)

// CatalogRequest represents the catalog model create/update payload
type CatalogRequest struct {
	Model        string   `json:"model" binding:"required"`
	Manufacturer string   `json:"manufacturer" binding:"required"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
	Price        *float64 `json:"price" binding:"omitempty,gte=0"`
	Quantity     *int     `json:"quantity" binding:"omitempty,gte=0"`
}

func (r CatalogRequest) toInput() service.CatalogInput {
	return service.CatalogInput{
		Model:        r.Model,
		Manufacturer: r.Manufacturer,
		Description:  r.Description,
		Features:     r.Features,
		Price:        r.Price,
		Quantity:     r.Quantity,
	}
}

// ClientMachineRequest represents the installed machine payload
type ClientMachineRequest struct {
	SerialNumber         string `json:"serial_number" binding:"required"`
	ClientID             int64  `json:"client_id" binding:"required"`
	CatalogMachineID     *int64 `json:"catalog_machine_id"`
	ExternalModel        string `json:"external_model"`
	ExternalManufacturer string `json:"external_manufacturer"`
	ExternalDescription  string `json:"external_description"`
	AcquisitionType      string `json:"acquisition_type" binding:"required,acquisitiontype"`
}

func (r ClientMachineRequest) toInput() service.ClientMachineInput {
	return service.ClientMachineInput{
		SerialNumber:         r.SerialNumber,
		ClientID:             r.ClientID,
		CatalogMachineID:     r.CatalogMachineID,
		ExternalModel:        r.ExternalModel,
		ExternalManufacturer: r.ExternalManufacturer,
		ExternalDescription:  r.ExternalDescription,
		AcquisitionType:      r.AcquisitionType,
	}
}

// CreateCatalogMachine handles POST /api/catalog
func (h *Handlers) CreateCatalogMachine(c *gin.Context) {
	var req CatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	machine, err := h.services.Catalog.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondCreated(c, machine)
}

// ListCatalogMachines handles GET /api/catalog
func (h *Handlers) ListCatalogMachines(c *gin.Context) {
	machines, err := h.services.Catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, machines)
}

// GetCatalogMachine handles GET /api/catalog/:id
func (h *Handlers) GetCatalogMachine(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	machine, err := h.services.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, machine)
}

// UpdateCatalogMachine handles PUT /api/catalog/:id
func (h *Handlers) UpdateCatalogMachine(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	machine, err := h.services.Catalog.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, machine)
}

// DeleteCatalogMachine handles DELETE /api/catalog/:id
func (h *Handlers) DeleteCatalogMachine(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Catalog.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, gin.H{"id": id})
}

// UploadDatasheet handles POST /api/catalog/:id/datasheet
func (h *Handlers) UploadDatasheet(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "missing file field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondBadRequest(c, "unreadable upload")
		return
	}
	defer file.Close()

	machine, err := h.services.Catalog.AttachDatasheet(c.Request.Context(), id, fileHeader.Filename, file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, machine)
}

// DownloadDatasheet handles GET /api/catalog/:id/datasheet
func (h *Handlers) DownloadDatasheet(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	path, err := h.services.Catalog.DatasheetPath(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.File(path)
}

// CreateClientMachine handles POST /api/machines
func (h *Handlers) CreateClientMachine(c *gin.Context) {
	var req ClientMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	machine, err := h.services.Machine.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondCreated(c, machine)
}

// ListClientMachines handles GET /api/machines?client_id=N
func (h *Handlers) ListClientMachines(c *gin.Context) {
	var clientID *int64
	if raw := c.Query("client_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondBadRequest(c, "invalid client_id parameter")
			return
		}
		clientID = &id
	}

	machines, err := h.services.Machine.List(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, machines)
}

// GetClientMachine handles GET /api/machines/:id
func (h *Handlers) GetClientMachine(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	machine, err := h.services.Machine.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, machine)
}

// UpdateClientMachine handles PUT /api/machines/:id
func (h *Handlers) UpdateClientMachine(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ClientMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	machine, err := h.services.Machine.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, machine)
}

// DeleteClientMachine handles DELETE /api/machines/:id
func (h *Handlers) DeleteClientMachine(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Machine.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, gin.H{"id": id})
}
