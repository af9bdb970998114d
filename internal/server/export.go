package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/clarkhq/clark/internal/export"
)

type exportRequest struct {
	IDs    []string `json:"ids"`
	Format string   `json:"format"`
}

// exportInvoices renders the selected invoices as a downloadable file and
// marks them synced.
func (s *Server) exportInvoices(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, fmt.Errorf("%w: invalid body", ErrInvalidRequest))
		return
	}

	ids := make([]snowflake.ID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			AbortWithError(c, fmt.Errorf("%w: invalid invoice id %q", ErrInvalidRequest, raw))
			return
		}
		ids = append(ids, snowflake.ID(parsed))
	}

	result, err := s.exporter.Export(c.Request.Context(), export.Request{
		IDs:    ids,
		Format: export.Format(req.Format),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func (s *Server) analyticsSummary(c *gin.Context) {
	summary, err := s.invoiceSvc.Summary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
