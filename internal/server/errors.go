package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	billingdomain "github.com/contaflow/facturel/internal/billing/domain"
	"github.com/contaflow/facturel/internal/dian"
	einvoicedomain "github.com/contaflow/facturel/internal/einvoice/domain"
	"github.com/contaflow/facturel/internal/gateway"
	submissiondomain "github.com/contaflow/facturel/internal/submission/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

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
		c.Header("Content-Type", "application/json")
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

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var gatewayErr *gateway.GatewayError
	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isDocumentError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, billingdomain.ErrNoActiveResolution):
		// No numbering authorization covers the document; a deployment
		// problem rather than a request problem.
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "configuration_error",
			Message: "no active resolution covers this document",
		}
	case errors.Is(err, einvoicedomain.ErrReconciliationFailed):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "reconciliation_error",
			Message: err.Error(),
		}
	case errors.As(err, &gatewayErr):
		return http.StatusBadGateway, errorPayload{
			Type:    "gateway_error",
			Message: gatewayErr.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, billingdomain.ErrInvoiceNotFound),
		errors.Is(err, billingdomain.ErrCustomerNotFound),
		errors.Is(err, billingdomain.ErrCompanyNotFound),
		errors.Is(err, submissiondomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// isDocumentError reports whether the stored document itself is unfit for
// submission.
func isDocumentError(err error) bool {
	switch {
	case errors.Is(err, einvoicedomain.ErrMissingReference),
		errors.Is(err, einvoicedomain.ErrInvalidIdentification),
		errors.Is(err, einvoicedomain.ErrZeroQuantity),
		errors.Is(err, dian.ErrEmptyIdentification),
		errors.Is(err, dian.ErrIdentificationTooLong):
		return true
	default:
		return false
	}
}

// classifyErrorForLog tags the request log entry with a coarse error type
// and a stable code.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	if status >= http.StatusInternalServerError && err != nil {
		code = firstToken(err.Error())
	}
	return payload.Type, code
}

func firstToken(message string) string {
	if idx := strings.IndexAny(message, ": "); idx > 0 {
		return message[:idx]
	}
	return message
}
