package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clarkhq/clark/internal/clock"
	"github.com/clarkhq/clark/internal/invoice/domain"
	"github.com/clarkhq/clark/internal/invoice/repository"
)

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func setupService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Invoice{}, &domain.LineItem{}))

	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(ServiceParam{
		Log:   zap.NewNop(),
		GenID: mustNode(t),
		Clock: fake,
		Repo:  repository.New(db),
	})
	return svc, db, fake
}

func draftFields(number string) domain.Fields {
	return domain.Fields{
		InvoiceNumber: number,
		SupplierName:  "Acme GmbH",
		InvoiceDate:   "2024-01-15",
		NetAmount:     80,
		TaxAmount:     20,
		TotalAmount:   100,
		LineItems: []domain.LineItemFields{
			{Description: "Widget", Quantity: "2", UnitPrice: 50, Amount: 100},
		},
	}
}

func TestCreateDraft(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	invoice, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{
		Fields:       draftFields("INV-1"),
		Confidence:   0.87,
		DocumentPath: "file://clark-documents/documents/abc-invoice.pdf",
		ResponsePath: "file://clark-documents/ai-responses/abc-invoice.json",
		Filename:     "invoice.pdf",
	})
	require.NoError(t, err)

	assert.NotZero(t, invoice.ID)
	assert.Equal(t, domain.StatusNotReviewed, invoice.Status)
	assert.Equal(t, domain.SyncPending, invoice.SyncStatus)
	assert.Equal(t, 0.87, invoice.Confidence)
	require.Len(t, invoice.LineItems, 1)
	assert.Equal(t, 1, invoice.LineItems[0].LineNumber)
	assert.Nil(t, invoice.ReviewedAt)
}

func TestCreateDraftAllowsDuplicates(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)
	_, err = svc.CreateDraft(ctx, domain.CreateDraftRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)

	resp, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Total)
}

func TestSubmitMovesToReviewed(t *testing.T) {
	svc, _, fake := setupService(t)
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)

	fields := draftFields("INV-1")
	fields.SupplierName = "Acme GmbH (corrected)"
	fields.LineItems = append(fields.LineItems, domain.LineItemFields{Description: "Gadget", Amount: 10})

	submitted, err := svc.Submit(ctx, draft.ID, domain.SubmitRequest{Fields: fields})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusReviewed, submitted.Status)
	assert.Equal(t, "Acme GmbH (corrected)", submitted.SupplierName)
	require.NotNil(t, submitted.ReviewedAt)
	assert.Equal(t, fake.Now(), submitted.ReviewedAt.UTC())
	require.Len(t, submitted.LineItems, 2)
	assert.Equal(t, 2, submitted.LineItems[1].LineNumber)
}

func TestSubmitDuplicateGate(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	first, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, first.ID, domain.SubmitRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)

	second, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, second.ID, domain.SubmitRequest{Fields: draftFields("INV-1")})
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.ID, dup.Existing.ID)

	// Any one field differing clears the gate.
	differing := draftFields("INV-1")
	differing.InvoiceDate = "2024-01-16"
	_, err = svc.Submit(ctx, second.ID, domain.SubmitRequest{Fields: differing})
	require.NoError(t, err)
}

func TestSubmitForceBypassesDuplicateGate(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	first, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, first.ID, domain.SubmitRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)

	second, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)

	forced, err := svc.Submit(ctx, second.ID, domain.SubmitRequest{Fields: draftFields("INV-1"), Force: true})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReviewed, forced.Status)
}

func TestSubmitOwnRecordIsNotItsDuplicate(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, draft.ID, domain.SubmitRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)

	// Re-submitting the same invoice must not trip on its own row.
	_, err = svc.Submit(ctx, draft.ID, domain.SubmitRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)
}

func TestVerifyTransitions(t *testing.T) {
	svc, _, fake := setupService(t)
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)

	_, err = svc.Verify(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.Submit(ctx, draft.ID, domain.SubmitRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)

	fake.Advance(time.Hour)
	verified, err := svc.Verify(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVerified, verified.Status)
	require.NotNil(t, verified.VerifiedAt)
	assert.Equal(t, fake.Now(), verified.VerifiedAt.UTC())

	// Verified invoices are immutable.
	_, err = svc.Submit(ctx, draft.ID, domain.SubmitRequest{Fields: draftFields("INV-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	_, err = svc.Verify(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)
	_, err = svc.CreateDraft(ctx, domain.CreateDraftRequest{Fields: draftFields("INV-2")})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, draft.ID, domain.SubmitRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)

	status := domain.StatusNotReviewed
	resp, err := svc.List(ctx, domain.ListRequest{Status: &status})
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.Total)
	require.Len(t, resp.Invoices, 1)
	assert.Equal(t, "INV-2", resp.Invoices[0].InvoiceNumber)
}

func TestDelete(t *testing.T) {
	svc, db, _ := setupService(t)
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, draft.ID))
	_, err = svc.Get(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, draft.ID), domain.ErrNotFound)

	var lines int64
	require.NoError(t, db.Model(&domain.LineItem{}).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestSummary(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	first, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{Fields: draftFields("INV-1"), Confidence: 0.8})
	require.NoError(t, err)
	_, err = svc.CreateDraft(ctx, domain.CreateDraftRequest{Fields: draftFields("INV-2"), Confidence: 0.6})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, first.ID, domain.SubmitRequest{Fields: draftFields("INV-1")})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.TotalInvoices)
	assert.EqualValues(t, 1, summary.NotReviewed)
	assert.EqualValues(t, 1, summary.Reviewed)
	assert.EqualValues(t, 0, summary.Verified)
	assert.EqualValues(t, 2, summary.PendingSync)
	assert.InDelta(t, 200, summary.TotalAmount, 1e-9)
	assert.InDelta(t, 0.7, summary.AvgConfidence, 1e-9)

	assert.EqualValues(t, 1, summary.Confidence.High)
	assert.EqualValues(t, 1, summary.Confidence.Medium)
	assert.EqualValues(t, 0, summary.Confidence.Low)

	// The submitted invoice buckets under its review month from the fake
	// clock; the untouched draft buckets under its creation month.
	var reviewed *domain.MonthlyBucket
	for i := range summary.Monthly {
		if summary.Monthly[i].Month == "2024-03" {
			reviewed = &summary.Monthly[i]
		}
	}
	require.NotNil(t, reviewed)
	assert.EqualValues(t, 1, reviewed.Count)
	assert.InDelta(t, 100, reviewed.Amount, 1e-9)
}
