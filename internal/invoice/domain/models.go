// Package domain contains persistence models and service contracts for
// extracted invoices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus is the review lifecycle of a stored invoice.
type InvoiceStatus string

const (
	// StatusNotReviewed marks drafts persisted straight from extraction.
	StatusNotReviewed InvoiceStatus = "not_reviewed"
	// StatusReviewed marks invoices a human submitted after review.
	StatusReviewed InvoiceStatus = "reviewed"
	// StatusVerified marks reviewed invoices confirmed by a second pass.
	StatusVerified InvoiceStatus = "verified"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusNotReviewed, StatusReviewed, StatusVerified:
		return true
	}
	return false
}

// SyncStatus tracks whether an invoice has been included in an export.
type SyncStatus string

const (
	SyncPending SyncStatus = "not_synced"
	SyncSynced  SyncStatus = "synced"
)

// Invoice is one extracted invoice document, either an unreviewed draft or
// a reviewed record. Header fields hold the override value when the
// reviewer corrected the extraction.
type Invoice struct {
	ID snowflake.ID `gorm:"primaryKey" json:"id"`

	InvoiceNumber   string `gorm:"type:text;not null;index:ix_invoice_identity" json:"invoice_number"`
	SupplierName    string `gorm:"type:text;not null;index:ix_invoice_identity" json:"supplier_name"`
	SupplierAddress string `gorm:"type:text;not null;default:''" json:"supplier_address"`
	InvoiceDate     string `gorm:"type:text;not null;index:ix_invoice_identity" json:"invoice_date"`
	DueDate         string `gorm:"type:text;not null;default:''" json:"due_date"`
	ReceiverName    string `gorm:"type:text;not null;default:''" json:"receiver_name"`
	ReceiverAddress string `gorm:"type:text;not null;default:''" json:"receiver_address"`
	Currency        string `gorm:"type:text;not null;default:''" json:"currency"`

	NetAmount   float64 `gorm:"not null;default:0" json:"net_amount"`
	TaxAmount   float64 `gorm:"not null;default:0" json:"tax_amount"`
	TotalAmount float64 `gorm:"not null;default:0" json:"total_amount"`

	Confidence float64 `gorm:"not null;default:0" json:"confidence"`

	Status     InvoiceStatus `gorm:"type:text;not null;default:'not_reviewed';index" json:"status"`
	SyncStatus SyncStatus    `gorm:"type:text;not null;default:'not_synced';index" json:"sync_status"`

	// DocumentPath and ResponsePath address the stored original and the
	// archived processor response in blob storage.
	DocumentPath string `gorm:"type:text;not null;default:''" json:"document_path"`
	ResponsePath string `gorm:"type:text;not null;default:''" json:"response_path"`
	Filename     string `gorm:"type:text;not null;default:''" json:"filename"`

	Metadata datatypes.JSONMap `gorm:"not null;default:'{}'" json:"metadata"`

	LineItems []LineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"line_items"`

	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

// LineItem is one extracted invoice line.
type LineItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID snowflake.ID `gorm:"not null;index" json:"invoice_id"`

	LineNumber  int     `gorm:"not null" json:"line_number"`
	Description string  `gorm:"type:text;not null;default:''" json:"description"`
	Quantity    string  `gorm:"type:text;not null;default:''" json:"quantity"`
	UnitPrice   float64 `gorm:"not null;default:0" json:"unit_price"`
	Amount      float64 `gorm:"not null;default:0" json:"amount"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (LineItem) TableName() string { return "invoice_line_items" }
