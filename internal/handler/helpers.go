package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stridecare/backend/internal/apperr"
)

// ErrorResponse is the JSON error body returned by every endpoint
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// statusFor maps an application error kind to an HTTP status
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAuthorizationDenied:
		return http.StatusForbidden
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	case apperr.KindTimeout:
		return http.StatusGatewayTimeout
	case apperr.KindRequestFailed, apperr.KindNoContent, apperr.KindDecodeFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// codeFor maps an application error kind to the wire error code
func codeFor(kind apperr.Kind) string {
	switch kind {
	case apperr.KindInvalidInput:
		return "VALIDATION_ERROR"
	case apperr.KindNotFound:
		return "NOT_FOUND"
	case apperr.KindAuthorizationDenied:
		return "AUTHORIZATION_DENIED"
	case apperr.KindUnavailable:
		return "UPSTREAM_UNAVAILABLE"
	case apperr.KindTimeout:
		return "UPSTREAM_TIMEOUT"
	case apperr.KindRequestFailed, apperr.KindNoContent, apperr.KindDecodeFailed:
		return "UPSTREAM_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// writeError renders err as a typed JSON error response
func writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	c.JSON(statusFor(kind), ErrorResponse{
		Code:    codeFor(kind),
		Message: err.Error(),
	})
}
