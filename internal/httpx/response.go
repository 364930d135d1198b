// Package httpx writes JSON error bodies for gin handlers.
package httpx

import (
	"log/slog"
	"net/http"

	"storefront/internal/apperr"
	"storefront/internal/logging"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Error maps err to its status and public body. Server errors are logged
// with their full context; the client only ever sees the public message.
func Error(c *gin.Context, logger *slog.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError && logger != nil {
		apperr.LogError(logger.With("path", c.Request.URL.Path, "request_id", logging.RequestID(c)), "request failed", err)
	}
	c.JSON(status, ErrorResponse{
		Message: apperr.PublicMessage(err),
		Code:    apperr.CodeOf(err),
		Fields:  apperr.Fields(err),
	})
}

// Abort is Error for middleware: the remaining handlers are skipped.
func Abort(c *gin.Context, logger *slog.Logger, err error) {
	Error(c, logger, err)
	c.Abort()
}
