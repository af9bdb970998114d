// Package service implements the invoice lifecycle.
package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/clarkhq/clark/internal/clock"
	"github.com/clarkhq/clark/internal/invoice/domain"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// CreateDraft stores an invoice straight from extraction. Drafts are never
// blocked by the duplicate gate; that only fires on submit.
func (s *Service) CreateDraft(ctx context.Context, req domain.CreateDraftRequest) (domain.Invoice, error) {
	invoice := domain.Invoice{
		ID:           s.genID.Generate(),
		Status:       domain.StatusNotReviewed,
		SyncStatus:   domain.SyncPending,
		Confidence:   req.Confidence,
		DocumentPath: req.DocumentPath,
		ResponsePath: req.ResponsePath,
		Filename:     req.Filename,
		Metadata:     datatypes.JSONMap(req.Metadata),
	}
	if invoice.Metadata == nil {
		invoice.Metadata = datatypes.JSONMap{}
	}
	s.applyFields(&invoice, req.Fields)

	if err := s.repo.Create(ctx, &invoice); err != nil {
		return domain.Invoice{}, err
	}
	s.log.Info("draft invoice created",
		zap.Int64("invoice_id", invoice.ID.Int64()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Float64("confidence", invoice.Confidence),
	)
	return s.repo.FindByID(ctx, invoice.ID)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (domain.Invoice, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	invoices, total, err := s.repo.Find(ctx, req)
	if err != nil {
		return domain.ListResponse{}, err
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return domain.ListResponse{Invoices: invoices, Total: total}, nil
}

// Submit finishes a review pass: it rechecks the duplicate gate against the
// reviewed identity triple, replaces the stored values with the reviewed
// ones and moves the invoice to reviewed. Already-verified invoices are
// immutable.
func (s *Service) Submit(ctx context.Context, id snowflake.ID, req domain.SubmitRequest) (domain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice.Status == domain.StatusVerified {
		return domain.Invoice{}, domain.ErrInvalidStatus
	}

	if !req.Force {
		existing, err := s.repo.FindDuplicate(ctx,
			req.Fields.InvoiceNumber, req.Fields.SupplierName, req.Fields.InvoiceDate)
		if err != nil {
			return domain.Invoice{}, err
		}
		if existing != nil && existing.ID != id {
			s.log.Warn("duplicate invoice blocked on submit",
				zap.Int64("invoice_id", id.Int64()),
				zap.Int64("existing_id", existing.ID.Int64()),
				zap.String("invoice_number", req.Fields.InvoiceNumber),
			)
			return domain.Invoice{}, &domain.DuplicateError{Existing: *existing}
		}
	}

	s.applyFields(&invoice, req.Fields)
	now := s.clock.Now()
	invoice.Status = domain.StatusReviewed
	invoice.ReviewedAt = &now

	if err := s.repo.Update(ctx, &invoice); err != nil {
		return domain.Invoice{}, err
	}
	if err := s.repo.ReplaceLineItems(ctx, invoice.ID, s.buildLineItems(invoice.ID, req.Fields.LineItems)); err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info("invoice submitted",
		zap.Int64("invoice_id", invoice.ID.Int64()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Bool("forced", req.Force),
	)
	return s.repo.FindByID(ctx, invoice.ID)
}

// Verify confirms a reviewed invoice. Only reviewed invoices can be
// verified; the transition is one-way.
func (s *Service) Verify(ctx context.Context, id snowflake.ID) (domain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice.Status != domain.StatusReviewed {
		return domain.Invoice{}, domain.ErrInvalidStatus
	}

	now := s.clock.Now()
	invoice.Status = domain.StatusVerified
	invoice.VerifiedAt = &now
	if err := s.repo.Update(ctx, &invoice); err != nil {
		return domain.Invoice{}, err
	}
	return s.repo.FindByID(ctx, invoice.ID)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) FindDuplicate(ctx context.Context, invoiceNumber, supplierName, invoiceDate string) (*domain.Invoice, error) {
	return s.repo.FindDuplicate(ctx, invoiceNumber, supplierName, invoiceDate)
}

func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	return s.repo.Summary(ctx)
}

func (s *Service) applyFields(invoice *domain.Invoice, fields domain.Fields) {
	invoice.InvoiceNumber = fields.InvoiceNumber
	invoice.SupplierName = fields.SupplierName
	invoice.SupplierAddress = fields.SupplierAddress
	invoice.ReceiverName = fields.ReceiverName
	invoice.ReceiverAddress = fields.ReceiverAddress
	invoice.InvoiceDate = fields.InvoiceDate
	invoice.DueDate = fields.DueDate
	invoice.Currency = fields.Currency
	invoice.NetAmount = fields.NetAmount
	invoice.TaxAmount = fields.TaxAmount
	invoice.TotalAmount = fields.TotalAmount
	invoice.LineItems = s.buildLineItems(invoice.ID, fields.LineItems)
}

func (s *Service) buildLineItems(invoiceID snowflake.ID, lines []domain.LineItemFields) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(lines))
	for i, line := range lines {
		items = append(items, domain.LineItem{
			ID:          s.genID.Generate(),
			InvoiceID:   invoiceID,
			LineNumber:  i + 1,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
		})
	}
	return items
}
