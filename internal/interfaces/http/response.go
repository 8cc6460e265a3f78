package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/intersul/copimanager/internal/domain/entity"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// respondError maps domain errors to HTTP status codes. Anything not in
// the domain taxonomy is a 500 with a generic body.
func respondError(c *gin.Context, logger Logger, err error) {
	switch {
	case entity.IsNotFound(err):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case entity.IsInvalidReference(err):
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
	case entity.IsConflict(err):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, entity.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: "invalid credentials"})
	case errors.Is(err, entity.ErrValidation):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	default:
		logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal server error"})
	}
}
