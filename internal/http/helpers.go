package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/egarlo/libreria/internal/services"
)

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"` // offending field or key, when known
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondServiceError maps the typed service errors onto HTTP statuses:
// NotFound 404, Conflict 409, InvalidReference and validation failures
// 400, in-use deletions 409, anything else 500.
func respondServiceError(c *gin.Context, err error, context string) {
	switch typed := err.(type) {
	case *services.NotFoundError:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: typed.Error(), Field: typed.Key})
	case *services.ConflictError:
		c.JSON(http.StatusConflict, ErrorResponse{Error: typed.Error(), Field: typed.Field})
	case *services.InvalidReferenceError:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: typed.Error(), Field: typed.Field})
	case *services.ValidationError:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: typed.Error(), Field: typed.Field})
	case *services.InUseError:
		c.JSON(http.StatusConflict, ErrorResponse{Error: typed.Error()})
	default:
		respondInternalError(c, err, context)
	}
}

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Responds with 400 and returns false on failure.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseQueryInt reads an optional integer query parameter, falling back to
// def when absent or malformed input is rejected with ok=false.
func parseQueryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return value, true
}
