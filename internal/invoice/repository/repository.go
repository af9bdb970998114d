// Package repository implements gorm persistence for invoices.
package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/clarkhq/clark/internal/invoice/domain"
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *Repository) FindByID(ctx context.Context, id snowflake.ID) (domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("line_number ASC") }).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return invoice, err
}

func (r *Repository) Find(ctx context.Context, req domain.ListRequest) ([]domain.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Invoice{})
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	if req.SyncStatus != nil {
		query = query.Where("sync_status = ?", *req.SyncStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if req.Limit > 0 {
		query = query.Limit(req.Limit)
	}
	if req.Offset > 0 {
		query = query.Offset(req.Offset)
	}

	var invoices []domain.Invoice
	err := query.
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("line_number ASC") }).
		Order("created_at DESC").
		Find(&invoices).Error
	return invoices, total, err
}

func (r *Repository) Update(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Omit("LineItems").Save(invoice).Error
}

// ReplaceLineItems swaps the stored lines for an invoice atomically.
func (r *Repository) ReplaceLineItems(ctx context.Context, invoiceID snowflake.ID, items []domain.LineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceID).Delete(&domain.LineItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *Repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&domain.LineItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Invoice{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// FindDuplicate matches on the exact identity triple. Matching is strict
// equality; near-duplicates are out of scope.
func (r *Repository) FindDuplicate(ctx context.Context, invoiceNumber, supplierName, invoiceDate string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).
		Where("invoice_number = ? AND supplier_name = ? AND invoice_date = ?",
			invoiceNumber, supplierName, invoiceDate).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *Repository) MarkSynced(ctx context.Context, ids []snowflake.ID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("id IN ?", ids).
		Update("sync_status", domain.SyncSynced).Error
}

func (r *Repository) Summary(ctx context.Context) (domain.Summary, error) {
	var summary domain.Summary
	base := func() *gorm.DB { return r.db.WithContext(ctx).Model(&domain.Invoice{}) }

	if err := base().Count(&summary.TotalInvoices).Error; err != nil {
		return domain.Summary{}, err
	}
	counts := []struct {
		status domain.InvoiceStatus
		dest   *int64
	}{
		{domain.StatusNotReviewed, &summary.NotReviewed},
		{domain.StatusReviewed, &summary.Reviewed},
		{domain.StatusVerified, &summary.Verified},
	}
	for _, c := range counts {
		if err := base().Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return domain.Summary{}, err
		}
	}
	if err := base().Where("sync_status = ?", domain.SyncPending).Count(&summary.PendingSync).Error; err != nil {
		return domain.Summary{}, err
	}

	row := struct {
		TotalAmount   float64
		AvgConfidence float64
	}{}
	err := base().
		Select("COALESCE(SUM(total_amount), 0) AS total_amount, COALESCE(AVG(confidence), 0) AS avg_confidence").
		Scan(&row).Error
	if err != nil {
		return domain.Summary{}, err
	}
	summary.TotalAmount = row.TotalAmount
	summary.AvgConfidence = row.AvgConfidence

	if err := r.fillDistributions(ctx, &summary); err != nil {
		return domain.Summary{}, err
	}
	return summary, nil
}

// fillDistributions buckets invoices by processing month and confidence
// band. Bucketing happens in Go so the query stays identical across the
// postgres and sqlite dialects.
func (r *Repository) fillDistributions(ctx context.Context, summary *domain.Summary) error {
	var rows []struct {
		ReviewedAt  *time.Time
		CreatedAt   time.Time
		TotalAmount float64
		Confidence  float64
	}
	err := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Select("reviewed_at, created_at, total_amount, confidence").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	monthly := map[string]*domain.MonthlyBucket{}
	for _, row := range rows {
		at := row.CreatedAt
		if row.ReviewedAt != nil {
			at = *row.ReviewedAt
		}
		month := at.UTC().Format("2006-01")
		bucket, ok := monthly[month]
		if !ok {
			bucket = &domain.MonthlyBucket{Month: month}
			monthly[month] = bucket
		}
		bucket.Count++
		bucket.Amount += row.TotalAmount

		switch {
		case row.Confidence >= 0.8:
			summary.Confidence.High++
		case row.Confidence >= 0.5:
			summary.Confidence.Medium++
		default:
			summary.Confidence.Low++
		}
	}

	summary.Monthly = make([]domain.MonthlyBucket, 0, len(monthly))
	for _, bucket := range monthly {
		summary.Monthly = append(summary.Monthly, *bucket)
	}
	sort.Slice(summary.Monthly, func(i, j int) bool {
		return summary.Monthly[i].Month < summary.Monthly[j].Month
	})
	return nil
}
