// Package wms submits payloads to the Corpem warehouse endpoint and
// classifies each outcome. The endpoint is not idempotent-safe for
// this pipeline, so the client never retries.
package wms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rezonia/nfe-wms-connector/internal/corpem"
	"github.com/rezonia/nfe-wms-connector/internal/model"
)

// tokenHeader is the vendor's static authentication header.
const tokenHeader = "TOKEN_CP"

const defaultTimeout = 30 * time.Second

// Config holds the vendor endpoint settings.
type Config struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// Client talks to the WMS endpoint.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

// NewClient creates a WMS client. A nil logger disables logging.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

// vendorBody is the slice of the response the client interprets. Any
// body carrying CORPEM_WS_ERRO is a logical rejection regardless of
// HTTP status.
type vendorBody struct {
	Error string `json:"CORPEM_WS_ERRO"`
}

// post sends one payload and classifies the outcome. The response body
// is returned even when the vendor rejected the request, so callers
// can surface it verbatim.
func (c *Client) post(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, model.NewTransportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tokenHeader, c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, model.NewTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewTransportError(err)
	}

	var vb vendorBody
	if err := json.Unmarshal(body, &vb); err == nil && vb.Error != "" {
		return body, model.NewVendorError(vb.Error, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, model.NewVendorError(string(body), resp.StatusCode)
	}

	return body, nil
}

// SubmitProducts posts each registration strictly sequentially, in
// document order, aborting on the first failure. The returned slice
// always covers every attempted item, including the failed one, so the
// caller can tell which items succeeded, which one failed, and which
// were never attempted.
func (c *Client) SubmitProducts(ctx context.Context, req *corpem.ProductCatalogRequest) ([]model.ProductSubmission, error) {
	results := make([]model.ProductSubmission, 0, len(req.Registrations))

	for _, reg := range req.Registrations {
		payload, err := json.Marshal(reg)
		if err != nil {
			return results, fmt.Errorf("marshal product %s: %w", reg.Merchandise.Code, err)
		}

		sub := model.ProductSubmission{
			Code:    reg.Merchandise.Code,
			Name:    reg.Merchandise.Name,
			Payload: payload,
		}

		c.log.Info("registering product in WMS",
			zap.String("product", reg.Merchandise.Code))

		body, err := c.post(ctx, payload)
		sub.Response = body
		if err != nil {
			sub.Status = model.StatusForError(err)
			results = append(results, sub)
			c.log.Error("product registration failed",
				zap.String("product", reg.Merchandise.Code),
				zap.Error(err))
			return results, fmt.Errorf("product %s: %w", reg.Merchandise.Code, err)
		}

		sub.Status = model.StatusSuccess
		results = append(results, sub)
	}

	return results, nil
}

// SubmitInvoice posts the goods-receipt request. Callers must only
// invoke it after every product registration succeeded: the receipt
// references product codes by identity, and an incomplete catalog
// corrupts the warehouse silently.
func (c *Client) SubmitInvoice(ctx context.Context, req *corpem.GoodsReceiptRequest) (*model.InvoiceSubmission, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal goods receipt: %w", err)
	}

	sub := &model.InvoiceSubmission{Payload: payload}

	c.log.Info("submitting goods receipt to WMS",
		zap.String("invoice", req.Receipt.Number),
		zap.String("access_key", req.Receipt.AccessKey))

	body, err := c.post(ctx, payload)
	sub.Response = body
	if err != nil {
		sub.Status = model.StatusForError(err)
		c.log.Error("goods receipt submission failed",
			zap.String("invoice", req.Receipt.Number),
			zap.Error(err))
		return sub, err
	}

	sub.Status = model.StatusSuccess
	return sub, nil
}
