// Package export renders stored invoices to CSV or XLSX for the accounting
// system and marks the exported rows as synced.
package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/clarkhq/clark/internal/clock"
	"github.com/clarkhq/clark/internal/invoice/domain"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrNothingToExport = errors.New("export: no invoices selected")

var invoiceHeaders = []string{
	"Invoice #", "Supplier Name", "Supplier Address",
	"Invoice Date", "Due Date", "Processed Date", "Total Amount",
}

var lineItemHeaders = []string{
	"Invoice #", "Line Item #", "Description", "Quantity", "Unit Price", "Amount",
}

// Request selects what to export. An empty ID list exports every verified
// invoice not yet synced.
type Request struct {
	IDs    []snowflake.ID
	Format Format
}

// Result is a rendered export file.
type Result struct {
	Filename    string
	ContentType string
	Content     []byte
	Count       int
}

type ExporterParam struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Exporter struct {
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func NewExporter(p ExporterParam) *Exporter {
	return &Exporter{
		log:   p.Log.Named("export"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Export renders the selected invoices and flips their sync status. The
// flip happens only after the file rendered successfully, so a failed
// export never loses rows from the pending view.
func (e *Exporter) Export(ctx context.Context, req Request) (Result, error) {
	invoices, err := e.collect(ctx, req.IDs)
	if err != nil {
		return Result{}, err
	}
	if len(invoices) == 0 {
		return Result{}, ErrNothingToExport
	}

	stamp := e.clock.Now().Format("2006-01-02")
	var result Result
	switch req.Format {
	case FormatXLSX:
		content, err := renderXLSX(invoices)
		if err != nil {
			return Result{}, err
		}
		result = Result{
			Filename:    fmt.Sprintf("verified_invoices_%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}
	case FormatCSV, "":
		content, err := renderCSV(invoices)
		if err != nil {
			return Result{}, err
		}
		result = Result{
			Filename:    fmt.Sprintf("verified_invoices_%s.csv", stamp),
			ContentType: "text/csv; charset=utf-8",
			Content:     content,
		}
	default:
		return Result{}, fmt.Errorf("export: unsupported format %q", req.Format)
	}
	result.Count = len(invoices)

	ids := make([]snowflake.ID, 0, len(invoices))
	for _, invoice := range invoices {
		ids = append(ids, invoice.ID)
	}
	if err := e.repo.MarkSynced(ctx, ids); err != nil {
		return Result{}, fmt.Errorf("export: mark synced: %w", err)
	}

	e.log.Info("invoices exported",
		zap.String("format", string(req.Format)),
		zap.Int("count", result.Count),
	)
	return result, nil
}

func (e *Exporter) collect(ctx context.Context, ids []snowflake.ID) ([]domain.Invoice, error) {
	if len(ids) == 0 {
		status := domain.StatusVerified
		pending := domain.SyncPending
		invoices, _, err := e.repo.Find(ctx, domain.ListRequest{Status: &status, SyncStatus: &pending})
		return invoices, err
	}

	invoices := make([]domain.Invoice, 0, len(ids))
	for _, id := range ids {
		invoice, err := e.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}

func invoiceRow(invoice domain.Invoice) []string {
	return []string{
		invoice.InvoiceNumber,
		invoice.SupplierName,
		invoice.SupplierAddress,
		invoice.InvoiceDate,
		invoice.DueDate,
		processedDate(invoice),
		amount(invoice.TotalAmount),
	}
}

func lineItemRow(invoiceNumber string, item domain.LineItem) []string {
	return []string{
		invoiceNumber,
		fmt.Sprintf("%d", item.LineNumber),
		item.Description,
		item.Quantity,
		amount(item.UnitPrice),
		amount(item.Amount),
	}
}

func processedDate(invoice domain.Invoice) string {
	at := invoice.CreatedAt
	if invoice.ReviewedAt != nil {
		at = *invoice.ReviewedAt
	}
	return at.UTC().Format(time.DateOnly)
}

func amount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

// Module wires the exporter.
var Module = fx.Module("export",
	fx.Provide(NewExporter),
)
