package http

import (
	"github.com/gin-gonic/gin"

	"github.com/intersul/copimanager/internal/application/service"
)

// RegisterRequest represents the account registration payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required,userrole"`
	Phone    string `json:"phone"`
	Position string `json:"position"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest represents a partial profile update
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role" binding:"omitempty,userrole"`
	Phone    *string `json:"phone"`
	Position *string `json:"position"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

// SetActiveRequest toggles an account's active flag
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// Register handles POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := h.services.Auth.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		Phone:    req.Phone,
		Position: req.Position,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondCreated(c, user)
}

// Login handles POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.services.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, result)
}

// ListUsers handles GET /api/users
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.services.Auth.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, users)
}

// GetUser handles GET /api/users/:id
func (h *Handlers) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, err := h.services.Auth.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, user)
}

// UpdateUser handles PATCH /api/users/:id
func (h *Handlers) UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := h.services.Auth.UpdateUser(c.Request.Context(), id, service.UpdateUserInput{
		Name:     req.Name,
		Role:     req.Role,
		Phone:    req.Phone,
		Position: req.Position,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, user)
}

// SetUserActive handles PATCH /api/users/:id/active
func (h *Handlers) SetUserActive(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.services.Auth.SetUserActive(c.Request.Context(), id, *req.Active); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, gin.H{"id": id, "active": *req.Active})
}
