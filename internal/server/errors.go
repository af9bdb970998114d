package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clarkhq/clark/internal/blob"
	"github.com/clarkhq/clark/internal/docai"
	"github.com/clarkhq/clark/internal/export"
	invoicedomain "github.com/clarkhq/clark/internal/invoice/domain"
	"github.com/clarkhq/clark/internal/review"
)

type errorPayload struct {
	Type     string            `json:"type"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	Existing any               `json:"existing_invoice,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware maps domain errors pushed via c.Error onto JSON
// responses. Handlers that already wrote a body are left alone.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	var dupErr *invoicedomain.DuplicateError
	if errors.As(err, &dupErr) {
		return http.StatusConflict, errorPayload{
			Type:     "duplicate_invoice",
			Message:  dupErr.Error(),
			Existing: dupErr.Existing,
		}
	}

	var valErr *invoicedomain.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "validation_error",
			Message: valErr.Error(),
			Fields:  valErr.Fields,
		}
	}

	switch {
	case errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, blob.ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, review.ErrSubmitPending):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, blob.ErrInvalidPath),
		errors.Is(err, review.ErrNotLoaded),
		errors.Is(err, export.ErrNothingToExport):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_request",
			Message: err.Error(),
		}
	case errors.Is(err, docai.ErrNotConfigured):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}
