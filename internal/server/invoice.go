package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/clarkhq/clark/internal/extraction"
	invoicedomain "github.com/clarkhq/clark/internal/invoice/domain"
	invoicesvc "github.com/clarkhq/clark/internal/invoice/service"
	"github.com/clarkhq/clark/internal/review"
)

func parseInvoiceID(c *gin.Context) (snowflake.ID, error) {
	raw, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid invoice id", ErrInvalidRequest)
	}
	return snowflake.ID(raw), nil
}

func (s *Server) listInvoices(c *gin.Context) {
	req := invoicedomain.ListRequest{}

	if raw := c.Query("status"); raw != "" {
		status := invoicedomain.InvoiceStatus(raw)
		if !status.Valid() {
			AbortWithError(c, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, raw))
			return
		}
		req.Status = &status
	}
	if raw := c.Query("sync_status"); raw != "" {
		syncStatus := invoicedomain.SyncStatus(raw)
		req.SyncStatus = &syncStatus
	}
	req.Limit, _ = strconv.Atoi(c.Query("limit"))
	req.Offset, _ = strconv.Atoi(c.Query("offset"))

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getInvoice(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoice, err := s.invoiceSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

type submitRequest struct {
	Overrides map[string]string `json:"overrides"`
	Force     bool              `json:"force"`
}

// submitInvoice finishes a review pass. The extracted document comes from
// the open review session when there is one, or from the archived processor
// response otherwise, so a submit also works after a restart.
func (s *Server) submitInvoice(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, fmt.Errorf("%w: invalid body", ErrInvalidRequest))
		return
	}

	buckets, overrides, err := s.reviewState(c, id, req.Overrides)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// Totals validation always blocks; force only applies to the duplicate
	// gate further down.
	if fieldErrors := extraction.ValidateTotals(buckets, overrides); len(fieldErrors) > 0 {
		if _, err := s.sessions.Update(id.String(), func(session *review.Session) error {
			session.FieldErrors = fieldErrors
			return nil
		}); err != nil {
			AbortWithError(c, err)
			return
		}
		AbortWithError(c, &invoicedomain.ValidationError{Fields: fieldErrors})
		return
	}

	fields := invoicesvc.AssembleFields(buckets, overrides)
	invoice, err := s.invoiceSvc.Submit(c.Request.Context(), id, invoicedomain.SubmitRequest{
		Fields: fields,
		Force:  req.Force,
	})
	if err != nil {
		var dupErr *invoicedomain.DuplicateError
		if errors.As(err, &dupErr) {
			s.metrics.DuplicatesBlocked.Inc()
		}
		AbortWithError(c, err)
		return
	}

	s.metrics.InvoicesSubmitted.Inc()
	s.sessions.Close(id.String())
	c.JSON(http.StatusOK, invoice)
}

type verifyResponse struct {
	Invoice invoicedomain.Invoice `json:"invoice"`
	NextID  *snowflake.ID         `json:"next_id,omitempty"`
}

// verifyInvoice confirms a reviewed invoice and hands the caller the next
// one still waiting in the review queue.
func (s *Server) verifyInvoice(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoice, err := s.invoiceSvc.Verify(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := verifyResponse{Invoice: invoice}
	status := invoicedomain.StatusReviewed
	queued, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListRequest{Status: &status, Limit: 1})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if len(queued.Invoices) > 0 {
		next := queued.Invoices[0].ID
		resp.NextID = &next
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) deleteInvoice(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.invoiceSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	s.sessions.Close(id.String())
	c.Status(http.StatusNoContent)
}
