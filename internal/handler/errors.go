package handler

import (
	"errors"
	"net/http"

	"github.com/MarioTomas0209/system-order/internal/apperr"
	"github.com/MarioTomas0209/system-order/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps the service error taxonomy onto HTTP statuses: validation
// failures carry field-level messages, uniqueness conflicts and referential
// guards report 409, missing entities 404, everything else 500.
func writeError(c *gin.Context, err error) {
	if ve, ok := apperr.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, response.ValidationFailed(http.StatusBadRequest, ve))
		return
	}
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	if errors.Is(err, apperr.ErrConflict) {
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
		return
	}
	c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
}

// actorID extracts the authenticated user's id set by the auth middleware.
func actorID(c *gin.Context) string {
	v, _ := c.Get("userID")
	s, _ := v.(string)
	return s
}
