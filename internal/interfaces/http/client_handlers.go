package http

import (
	"github.com/gin-gonic/gin"

	"github.com/intersul/copimanager/internal/application/service"
)

// ClientRequest represents the client create/update payload
type ClientRequest struct {
	Name    string `json:"name" binding:"required"`
	CNPJ    string `json:"cnpj"`
	CPF     string `json:"cpf"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"required,email"`
}

func (r ClientRequest) toInput() service.ClientInput {
	return service.ClientInput{
		Name:    r.Name,
		CNPJ:    r.CNPJ,
		CPF:     r.CPF,
		Address: r.Address,
		Phone:   r.Phone,
		Email:   r.Email,
	}
}

// CreateClient handles POST /api/clients
func (h *Handlers) CreateClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	client, err := h.services.Client.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondCreated(c, client)
}

// ListClients handles GET /api/clients
func (h *Handlers) ListClients(c *gin.Context) {
	clients, err := h.services.Client.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, clients)
}

// GetClient handles GET /api/clients/:id
func (h *Handlers) GetClient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	client, err := h.services.Client.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, client)
}

// UpdateClient handles PUT /api/clients/:id
func (h *Handlers) UpdateClient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	client, err := h.services.Client.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, client)
}

// DeleteClient handles DELETE /api/clients/:id
func (h *Handlers) DeleteClient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Client.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, gin.H{"id": id})
}
