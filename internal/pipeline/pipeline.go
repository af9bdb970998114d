// Package pipeline runs an uploaded document through storage, extraction
// and draft persistence.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/clarkhq/clark/internal/blob"
	"github.com/clarkhq/clark/internal/config"
	"github.com/clarkhq/clark/internal/docai"
	"github.com/clarkhq/clark/internal/extraction"
	"github.com/clarkhq/clark/internal/invoice/domain"
	invoicesvc "github.com/clarkhq/clark/internal/invoice/service"
	"github.com/clarkhq/clark/internal/observability"
)

// UploadInput is one document handed to the pipeline.
type UploadInput struct {
	Filename string
	MimeType string
	Content  []byte

	// RunValidation attaches totals validation results to the outcome.
	// Validation never blocks draft creation; the review flow decides
	// what to do with the errors.
	RunValidation bool

	Metadata map[string]any
}

// Result is the outcome of processing one document. Duplicate carries an
// already-stored invoice with the same identity triple as an early warning;
// it never blocks the draft.
type Result struct {
	Invoice          domain.Invoice       `json:"invoice"`
	Document         *extraction.Document `json:"document"`
	DocumentPath     string               `json:"document_path"`
	ResponsePath     string               `json:"response_path"`
	Duplicate        *domain.Invoice      `json:"duplicate,omitempty"`
	ValidationErrors map[string]string    `json:"validation_errors,omitempty"`
}

// BatchItemResult is the per-file outcome of a batch run. Failed items
// carry the error; successes carry the draft.
type BatchItemResult struct {
	Filename string          `json:"filename"`
	Invoice  *domain.Invoice `json:"invoice,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// BatchResult summarizes one batch upload.
type BatchResult struct {
	BatchID   string            `json:"batch_id"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Items     []BatchItemResult `json:"items"`
}

type ProcessorParam struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Store   blob.Store
	DocAI   docai.Processor
	Service domain.Service
	Metrics *observability.Metrics
}

// Processor orchestrates the upload pipeline.
type Processor struct {
	cfg     config.Config
	log     *zap.Logger
	store   blob.Store
	docai   docai.Processor
	service domain.Service
	metrics *observability.Metrics
}

func NewProcessor(p ProcessorParam) *Processor {
	return &Processor{
		cfg:     p.Config,
		log:     p.Log.Named("pipeline"),
		store:   p.Store,
		docai:   p.DocAI,
		service: p.Service,
		metrics: p.Metrics,
	}
}

// Process stores the original, extracts it, archives the raw processor
// response next to it and persists an unreviewed draft. The original is
// kept even when extraction fails so nothing uploaded is ever lost.
func (p *Processor) Process(ctx context.Context, in UploadInput) (Result, error) {
	objectName := blob.ObjectName(in.Filename)

	documentPath, err := p.store.Put(ctx, blob.FolderDocuments, objectName, in.Content, in.MimeType)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: store document: %w", err)
	}

	start := time.Now()
	doc, err := p.docai.Process(ctx, in.Content, in.MimeType)
	p.metrics.ExtractionSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.DocumentsProcessed.WithLabelValues("failure").Inc()
		return Result{}, fmt.Errorf("pipeline: extract %s: %w", in.Filename, err)
	}
	p.metrics.DocumentsProcessed.WithLabelValues("success").Inc()

	responsePath, err := p.archiveResponse(ctx, objectName, doc)
	if err != nil {
		return Result{}, err
	}

	buckets := extraction.Classify(doc.Entities)
	fields := invoicesvc.AssembleFields(buckets, nil)
	confidence := extraction.AggregateConfidence(buckets)

	// Checked before the draft is stored so the draft never matches itself.
	var duplicate *domain.Invoice
	if fields.InvoiceNumber != "" {
		duplicate, err = p.service.FindDuplicate(ctx, fields.InvoiceNumber, fields.SupplierName, fields.InvoiceDate)
		if err != nil {
			return Result{}, fmt.Errorf("pipeline: duplicate check: %w", err)
		}
		if duplicate != nil {
			p.log.Warn("possible duplicate upload",
				zap.String("filename", in.Filename),
				zap.String("invoice_number", fields.InvoiceNumber),
				zap.Int64("existing_id", duplicate.ID.Int64()),
			)
		}
	}

	invoice, err := p.service.CreateDraft(ctx, domain.CreateDraftRequest{
		Fields:       fields,
		Confidence:   confidence,
		DocumentPath: documentPath,
		ResponsePath: responsePath,
		Filename:     in.Filename,
		Metadata:     in.Metadata,
	})
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: persist draft: %w", err)
	}

	result := Result{
		Invoice:      invoice,
		Document:     doc,
		DocumentPath: documentPath,
		ResponsePath: responsePath,
		Duplicate:    duplicate,
	}
	if in.RunValidation {
		result.ValidationErrors = extraction.ValidateTotals(buckets, nil)
	}

	p.log.Info("document processed",
		zap.String("filename", in.Filename),
		zap.Int64("invoice_id", invoice.ID.Int64()),
		zap.Int("entities", len(doc.Entities)),
		zap.Float64("confidence", confidence),
	)
	return result, nil
}

// ProcessBatch runs the items strictly in order. One failing file never
// aborts the batch; its error is captured with the filename and the rest
// keep going.
func (p *Processor) ProcessBatch(ctx context.Context, items []UploadInput) BatchResult {
	batch := BatchResult{
		BatchID: uuid.NewString(),
		Items:   make([]BatchItemResult, 0, len(items)),
	}

	for _, item := range items {
		item.RunValidation = p.cfg.BatchRunTotalsValidation
		if item.Metadata == nil {
			item.Metadata = map[string]any{}
		}
		item.Metadata["batch_id"] = batch.BatchID

		result, err := p.Process(ctx, item)
		if err != nil {
			p.metrics.BatchItems.WithLabelValues("failure").Inc()
			batch.Failed++
			batch.Items = append(batch.Items, BatchItemResult{
				Filename: item.Filename,
				Error:    err.Error(),
			})
			p.log.Warn("batch item failed",
				zap.String("batch_id", batch.BatchID),
				zap.String("filename", item.Filename),
				zap.Error(err),
			)
			continue
		}

		p.metrics.BatchItems.WithLabelValues("success").Inc()
		batch.Succeeded++
		invoice := result.Invoice
		batch.Items = append(batch.Items, BatchItemResult{
			Filename: item.Filename,
			Invoice:  &invoice,
		})
	}

	p.log.Info("batch processed",
		zap.String("batch_id", batch.BatchID),
		zap.Int("succeeded", batch.Succeeded),
		zap.Int("failed", batch.Failed),
	)
	return batch
}

func (p *Processor) archiveResponse(ctx context.Context, objectName string, doc *extraction.Document) (string, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("pipeline: encode response archive: %w", err)
	}
	path, err := p.store.Put(ctx, blob.FolderAIResponses, objectName+".json", payload, "application/json")
	if err != nil {
		return "", fmt.Errorf("pipeline: archive response: %w", err)
	}
	return path, nil
}

// Module wires the upload pipeline.
var Module = fx.Module("pipeline",
	fx.Provide(NewProcessor),
)
