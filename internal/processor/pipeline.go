// Package processor orchestrates the full run: decode the XML, extract
// the typed document, derive both WMS payloads, then perform the
// ordered two-phase submission.
package processor

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/rezonia/nfe-wms-connector/internal/corpem"
	"github.com/rezonia/nfe-wms-connector/internal/model"
	"github.com/rezonia/nfe-wms-connector/internal/nfe"
	"github.com/rezonia/nfe-wms-connector/internal/xmltree"
)

// Submitter is the outbound WMS surface the pipeline depends on.
type Submitter interface {
	SubmitProducts(ctx context.Context, req *corpem.ProductCatalogRequest) ([]model.ProductSubmission, error)
	SubmitInvoice(ctx context.Context, req *corpem.GoodsReceiptRequest) (*model.InvoiceSubmission, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithSubmitter sets the WMS submitter.
func WithSubmitter(s Submitter) Option {
	return func(p *Pipeline) { p.submitter = s }
}

// WithOwnerTaxID sets the operator CNPJ owning the product catalog.
func WithOwnerTaxID(taxID string) Option {
	return func(p *Pipeline) { p.ownerTaxID = taxID }
}

// WithForcedInvoiceKey forwards the debugging key override to the
// extractor.
func WithForcedInvoiceKey(key string) Option {
	return func(p *Pipeline) { p.forcedKey = key }
}

// Pipeline sequences extraction, mapping, and submission for one
// uploaded document at a time.
type Pipeline struct {
	log        *zap.Logger
	submitter  Submitter
	ownerTaxID string
	forcedKey  string
	extractor  *nfe.Extractor
}

// NewPipeline creates a pipeline with the given options.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{log: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}

	var extractorOpts []nfe.Option
	if p.forcedKey != "" {
		extractorOpts = append(extractorOpts, nfe.WithForcedKey(p.forcedKey))
	}
	p.extractor = nfe.NewExtractor(p.log, extractorOpts...)

	return p
}

// RunFile processes a transient uploaded file. The file is removed on
// every exit path, success or failure; the pipeline owns it for the
// duration of the run.
func (p *Pipeline) RunFile(ctx context.Context, path string) *Result {
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.log.Warn("could not remove transient upload",
				zap.String("path", path), zap.Error(err))
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return &Result{Err: err}
	}
	return p.Run(ctx, data)
}

// Run processes raw XML bytes. Extraction and mapping failures abort
// before any network call; a submission failure aborts the remaining
// phases but the result still carries everything submitted so far.
func (p *Pipeline) Run(ctx context.Context, data []byte) *Result {
	res := &Result{Products: []model.ProductSubmission{}}

	root, err := xmltree.Decode(data)
	if err != nil {
		res.Err = err
		return res
	}

	doc, err := p.extractor.Extract(root)
	if err != nil {
		res.Err = err
		return res
	}
	res.Document = doc

	catalog, err := corpem.MapProducts(doc, p.ownerTaxID)
	if err != nil {
		res.Err = err
		return res
	}
	receipt := corpem.MapInvoice(doc)

	p.log.Info("starting WMS submission",
		zap.String("invoice", doc.Number),
		zap.String("access_key", doc.AccessKey),
		zap.Int("products", len(catalog.Registrations)))

	// Phase 1: every product must be registered before the receipt is
	// sent. A single failure skips the invoice phase entirely.
	products, err := p.submitter.SubmitProducts(ctx, catalog)
	res.Products = products
	if err != nil {
		res.Err = err
		return res
	}

	// Phase 2: goods receipt.
	invoice, err := p.submitter.SubmitInvoice(ctx, receipt)
	res.Invoice = invoice
	if err != nil {
		res.Err = err
		return res
	}

	p.log.Info("WMS submission complete",
		zap.String("invoice", doc.Number),
		zap.Int("products", len(products)))

	return res
}
