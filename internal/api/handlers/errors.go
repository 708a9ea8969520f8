package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zenithcrm/crm-backend/internal/ratelimit"
	"github.com/zenithcrm/crm-backend/internal/service"
)

// Error kinds exposed on the wire. Stable labels; clients switch on
// these, not on messages.
const (
	codeUnauthorized     = "UNAUTHORIZED"
	codeForbidden        = "FORBIDDEN"
	codeNotFound         = "NOT_FOUND"
	codeValidationFailed = "VALIDATION_FAILED"
	codeRateLimited      = "RATE_LIMIT_EXCEEDED"
	codeConflict         = "CONFLICT"
	codeInternal         = "INTERNAL"
)

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// respondError maps service errors onto the wire taxonomy. Visibility
// and guard failures surface as-is; anything unrecognized is a 500 that
// the caller may retry once.
func respondError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{
			Code:    codeValidationFailed,
			Message: "One or more fields are invalid",
			Fields:  vErr.Fields,
		}})
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errorBody{
			Code:    codeUnauthorized,
			Message: "Not authorized for this request",
		}})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": errorBody{
			Code:    codeForbidden,
			Message: "You do not have permission to perform this action",
		}})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errorBody{
			Code:    codeNotFound,
			Message: "Resource not found",
		}})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": errorBody{
			Code:    codeConflict,
			Message: "Resource already exists",
		}})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": errorBody{
			Code:    codeRateLimited,
			Message: fmt.Sprintf("Rate limit exceeded: at most %d writes per minute", ratelimit.DefaultLimit),
		}})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{
			Code:    codeValidationFailed,
			Message: err.Error(),
		}})
	default:
		log.Printf("❌ [Handler] Internal error - Path: %s, Error: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorBody{
			Code:    codeInternal,
			Message: "Unexpected server error",
		}})
	}
}

// respondBindError reports gin binding failures in the validation shape.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{
		Code:    codeValidationFailed,
		Message: err.Error(),
	}})
}
