package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound      = errors.New("invoice_not_found")
	ErrInvalidStatus = errors.New("invalid_status_transition")
)

// DuplicateError reports a submit blocked by an already-stored invoice with
// the same identity triple.
type DuplicateError struct {
	Existing Invoice
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate invoice: %s from %s dated %s already stored",
		e.Existing.InvoiceNumber, e.Existing.SupplierName, e.Existing.InvoiceDate)
}

// ValidationError reports a submit blocked by totals validation. Fields maps
// entity ids to their message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("totals validation failed on %d field(s)", len(e.Fields))
}

// Fields is the reviewed (or freshly extracted) value set for an invoice,
// already normalized: amounts parsed, dates in YYYY-MM-DD.
type Fields struct {
	InvoiceNumber   string
	SupplierName    string
	SupplierAddress string
	ReceiverName    string
	ReceiverAddress string
	InvoiceDate     string
	DueDate         string
	Currency        string

	NetAmount   float64
	TaxAmount   float64
	TotalAmount float64

	LineItems []LineItemFields
}

// LineItemFields is one normalized line of a Fields set.
type LineItemFields struct {
	Description string
	Quantity    string
	UnitPrice   float64
	Amount      float64
}

// CreateDraftRequest persists an invoice straight from extraction.
type CreateDraftRequest struct {
	Fields       Fields
	Confidence   float64
	DocumentPath string
	ResponsePath string
	Filename     string
	Metadata     map[string]any
}

// SubmitRequest finishes a review pass. Force skips the duplicate gate only;
// totals validation happens upstream and always blocks.
type SubmitRequest struct {
	Fields Fields
	Force  bool
}

// ListRequest filters the stored invoices.
type ListRequest struct {
	Status     *InvoiceStatus
	SyncStatus *SyncStatus
	Limit      int
	Offset     int
}

// ListResponse is a page of invoices plus the unfiltered total.
type ListResponse struct {
	Invoices []Invoice `json:"invoices"`
	Total    int64     `json:"total"`
}

// Summary aggregates the stored invoices for the analytics endpoint.
type Summary struct {
	TotalInvoices int64   `json:"total_invoices"`
	NotReviewed   int64   `json:"not_reviewed"`
	Reviewed      int64   `json:"reviewed"`
	Verified      int64   `json:"verified"`
	PendingSync   int64   `json:"pending_sync"`
	TotalAmount   float64 `json:"total_amount"`
	AvgConfidence float64 `json:"avg_confidence"`

	Monthly    []MonthlyBucket `json:"monthly"`
	Confidence ConfidenceBands `json:"confidence_bands"`
}

// MonthlyBucket counts invoices processed in one calendar month.
type MonthlyBucket struct {
	Month  string  `json:"month"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// ConfidenceBands splits invoices into high (>=0.8), medium (>=0.5) and low
// confidence counts.
type ConfidenceBands struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}

// Service is the invoice lifecycle: draft persistence, review submission,
// verification and reporting.
type Service interface {
	CreateDraft(ctx context.Context, req CreateDraftRequest) (Invoice, error)
	Get(ctx context.Context, id snowflake.ID) (Invoice, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Submit(ctx context.Context, id snowflake.ID, req SubmitRequest) (Invoice, error)
	Verify(ctx context.Context, id snowflake.ID) (Invoice, error)
	Delete(ctx context.Context, id snowflake.ID) error
	FindDuplicate(ctx context.Context, invoiceNumber, supplierName, invoiceDate string) (*Invoice, error)
	Summary(ctx context.Context) (Summary, error)
}

// Repository is the persistence port for invoices.
type Repository interface {
	Create(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id snowflake.ID) (Invoice, error)
	Find(ctx context.Context, req ListRequest) ([]Invoice, int64, error)
	Update(ctx context.Context, invoice *Invoice) error
	ReplaceLineItems(ctx context.Context, invoiceID snowflake.ID, items []LineItem) error
	Delete(ctx context.Context, id snowflake.ID) error
	FindDuplicate(ctx context.Context, invoiceNumber, supplierName, invoiceDate string) (*Invoice, error)
	MarkSynced(ctx context.Context, ids []snowflake.ID) error
	Summary(ctx context.Context) (Summary, error)
}
