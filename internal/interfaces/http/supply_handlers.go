package http

import (
	"github.com/gin-gonic/gin"

	"github.com/intersul/copimanager/internal/application/service"
)

// SupplyRequest represents the supply create/update payload
type SupplyRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	QuantityInStock int     `json:"quantity_in_stock" binding:"gte=0"`
	Price           float64 `json:"price" binding:"gte=0"`
	Category        string  `json:"category" binding:"required,supplycategory"`
}

func (r SupplyRequest) toInput() service.SupplyInput {
	return service.SupplyInput{
		Name:            r.Name,
		Description:     r.Description,
		QuantityInStock: r.QuantityInStock,
		Price:           r.Price,
		Category:        r.Category,
	}
}

// AdjustStockRequest moves a supply's stock level by delta
type AdjustStockRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

// CategoryRequest represents the category create/update payload
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateSupply handles POST /api/supplies
func (h *Handlers) CreateSupply(c *gin.Context) {
	var req SupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	supply, err := h.services.Supply.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondCreated(c, supply)
}

// ListSupplies handles GET /api/supplies
func (h *Handlers) ListSupplies(c *gin.Context) {
	supplies, err := h.services.Supply.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, supplies)
}

// GetSupply handles GET /api/supplies/:id
func (h *Handlers) GetSupply(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	supply, err := h.services.Supply.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, supply)
}

// UpdateSupply handles PUT /api/supplies/:id
func (h *Handlers) UpdateSupply(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req SupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	supply, err := h.services.Supply.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, supply)
}

// AdjustStock handles PATCH /api/supplies/:id/stock
func (h *Handlers) AdjustStock(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	supply, err := h.services.Supply.AdjustStock(c.Request.Context(), id, *req.Delta)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, supply)
}

// DeleteSupply handles DELETE /api/supplies/:id
func (h *Handlers) DeleteSupply(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Supply.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, gin.H{"id": id})
}

// CreateCategory handles POST /api/categories
func (h *Handlers) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	category, err := h.services.Category.Create(c.Request.Context(), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondCreated(c, category)
}

// ListCategories handles GET /api/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.services.Category.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, categories)
}

// GetCategory handles GET /api/categories/:id
func (h *Handlers) GetCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	category, err := h.services.Category.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, category)
}

// UpdateCategory handles PUT /api/categories/:id
func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	category, err := h.services.Category.Update(c.Request.Context(), id, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, category)
}

// DeleteCategory handles DELETE /api/categories/:id
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Category.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, gin.H{"id": id})
}
