package nfewms

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/rezonia/nfe-wms-connector/internal/config"
	"github.com/rezonia/nfe-wms-connector/internal/model"
	"github.com/rezonia/nfe-wms-connector/internal/processor"
	"github.com/rezonia/nfe-wms-connector/internal/wms"
)

// Options configures a Processor.
type Options struct {
	// Endpoint is the Corpem WMS endpoint URL.
	Endpoint string
	// Token is the static TOKEN_CP authentication value.
	Token string
	// OperatorTaxID is the CNPJ of the WMS operator owning the
	// product catalog.
	OperatorTaxID string
	// ForceInvoiceKey overrides the access key resolved from the
	// document. Debugging only.
	ForceInvoiceKey string
	// Timeout bounds each outbound WMS request.
	Timeout time.Duration
	// Logger receives pipeline and client logs. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns options with the documented vendor defaults.
func DefaultOptions() Options {
	return Options{
		Endpoint:      config.DefaultEndpoint,
		Token:         config.DefaultToken,
		OperatorTaxID: config.DefaultOperatorTaxID,
	}
}

// Result is the outcome of one processing run: the extracted document
// plus everything that was submitted before the run finished or
// aborted.
type Result struct {
	// Document is the extracted invoice, nil when extraction failed.
	Document *model.InvoiceDocument
	// Products holds one entry per attempted product registration.
	Products []model.ProductSubmission
	// Invoice is the goods receipt outcome, nil when the phase was
	// skipped or never reached.
	Invoice *model.InvoiceSubmission
	// Err is the first failure, nil on full success.
	Err error
}

// Failed reports whether the run ended in an error.
func (r *Result) Failed() bool { return r.Err != nil }

// ErrorKind classifies Err for machine consumption.
func (r *Result) ErrorKind() ErrorKind { return model.KindOf(r.Err) }

// Processor forwards NF-e documents to the WMS using the internal
// pipeline.
type Processor struct {
	pipeline *processor.Pipeline
	options  Options
}

// NewProcessor creates a processor with the given options. Zero-value
// fields fall back to the documented defaults.
func NewProcessor(opts Options) *Processor {
	def := DefaultOptions()
	if opts.Endpoint == "" {
		opts.Endpoint = def.Endpoint
	}
	if opts.Token == "" {
		opts.Token = def.Token
	}
	if opts.OperatorTaxID == "" {
		opts.OperatorTaxID = def.OperatorTaxID
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	client := wms.NewClient(wms.Config{
		Endpoint: opts.Endpoint,
		Token:    opts.Token,
		Timeout:  opts.Timeout,
	}, opts.Logger)

	pipelineOpts := []processor.Option{
		processor.WithLogger(opts.Logger),
		processor.WithSubmitter(client),
		processor.WithOwnerTaxID(opts.OperatorTaxID),
	}
	if opts.ForceInvoiceKey != "" {
		pipelineOpts = append(pipelineOpts, processor.WithForcedInvoiceKey(opts.ForceInvoiceKey))
	}

	return &Processor{
		pipeline: processor.NewPipeline(pipelineOpts...),
		options:  opts,
	}
}

// NewDefaultProcessor creates a processor with default options.
func NewDefaultProcessor() *Processor {
	return NewProcessor(DefaultOptions())
}

// Process reads NF-e XML from r and performs the full run.
func (p *Processor) Process(ctx context.Context, r io.Reader) *Result {
	data, err := io.ReadAll(r)
	if err != nil {
		return &Result{Err: model.NewMalformedDocumentError(err)}
	}
	return p.ProcessBytes(ctx, data)
}

// ProcessBytes performs the full run on raw XML bytes.
func (p *Processor) ProcessBytes(ctx context.Context, data []byte) *Result {
	res := p.pipeline.Run(ctx, data)
	return &Result{
		Document: res.Document,
		Products: res.Products,
		Invoice:  res.Invoice,
		Err:      res.Err,
	}
}
