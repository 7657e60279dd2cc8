package processor

import "github.com/rezonia/nfe-wms-connector/internal/model"

// Result is the final report of one pipeline run. On failure it still
// carries the document and every per-product outcome gathered before
// the run stopped, so a caller can see exactly how far processing got.
type Result struct {
	Document *model.InvoiceDocument    `json:"invoice,omitempty"`
	Products []model.ProductSubmission `json:"products"`
	Invoice  *model.InvoiceSubmission  `json:"invoice_receipt,omitempty"`
	Err      error                     `json:"-"`
}

// Failed reports whether the run ended in an error.
func (r *Result) Failed() bool { return r.Err != nil }

// ErrorKind classifies the failure; KindInternal for unclassified
// errors, empty for success.
func (r *Result) ErrorKind() model.Kind {
	if r.Err == nil {
		return ""
	}
	return model.KindOf(r.Err)
}

// ErrorMessage is the human-readable failure message, empty on
// success.
func (r *Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
