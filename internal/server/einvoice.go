package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	einvoicedomain "github.com/contaflow/facturel/internal/einvoice/domain"
)

// SubmitInvoice transforms the stored invoice and submits it to the gateway.
func (s *Server) SubmitInvoice(c *gin.Context) {
	number, err := pathNumber(c, "number")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.einvoiceSvc.SubmitInvoice(c.Request.Context(), number)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(submissionStatus(result), result)
}

// SubmitCreditNote transforms the stored credit note and submits it.
func (s *Server) SubmitCreditNote(c *gin.Context) {
	number, err := pathNumber(c, "number")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.einvoiceSvc.SubmitCreditNote(c.Request.Context(), number)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(submissionStatus(result), result)
}

// GetSubmission returns one audit record from the submission trail.
func (s *Server) GetSubmission(c *gin.Context) {
	id, err := pathNumber(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	record, err := s.submissions.FindByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// submissionStatus maps the gateway verdict to an HTTP status. The gateway
// answered either way, so a rejection is still a completed request.
func submissionStatus(result *einvoicedomain.SubmissionResult) int {
	if result.Success {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}

func pathNumber(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, newValidationError(name, "invalid_"+name, "must be a positive integer")
	}
	return value, nil
}
