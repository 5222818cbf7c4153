package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumeshot/lumeshot/internal/common"
)

// ErrorBody is the machine-readable error envelope. No stack traces, no
// internal detail beyond the sentinel's message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error ErrorBody `json:"error"`
}

var errorStatus = []struct {
	sentinel error
	status   int
	code     string
}{
	{common.ErrBatchTooLarge, http.StatusBadRequest, "batch_too_large"},
	{common.ErrIdentifier, http.StatusBadRequest, "malformed_identifier"},
	{common.ErrValidation, http.StatusBadRequest, "validation_error"},
	{common.ErrSessionExpired, http.StatusGone, "session_expired"},
	{common.ErrNotFound, http.StatusNotFound, "not_found"},
	{common.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{common.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{common.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
	{common.ErrCredentials, http.StatusInternalServerError, "storage_credentials"},
}

// writeError maps a service error onto an HTTP status and a stable error
// code. Unrecognized errors become opaque 500s.
func writeError(c *gin.Context, err error) {
	for _, m := range errorStatus {
		if errors.Is(err, m.sentinel) {
			c.AbortWithStatusJSON(m.status, errorResponse{Error: ErrorBody{Code: m.code, Message: err.Error()}})
			return
		}
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: ErrorBody{Code: "internal_error", Message: "internal error"}})
}
