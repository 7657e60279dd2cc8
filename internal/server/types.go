package server

import (
	"github.com/rezonia/nfe-wms-connector/internal/model"
	"github.com/rezonia/nfe-wms-connector/internal/processor"
)

// IntegrationResponse is the synchronous success report.
type IntegrationResponse struct {
	Status   string                    `json:"status"`
	Invoice  *model.InvoiceDocument    `json:"invoice,omitempty"`
	Products []model.ProductSubmission `json:"products"`
	Receipt  *model.InvoiceSubmission  `json:"invoice_receipt,omitempty"`
}

// ErrorResponse carries a machine-readable kind, a human message, and
// whatever product results were gathered before the failure.
type ErrorResponse struct {
	Kind     string                    `json:"error"`
	Message  string                    `json:"message"`
	Products []model.ProductSubmission `json:"products,omitempty"`
}

// UploadedFile echoes the accepted upload metadata.
type UploadedFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// JobAcceptedResponse is the 202 answer for asynchronous submissions.
type JobAcceptedResponse struct {
	JobID     string       `json:"job_id"`
	StatusURL string       `json:"status_url"`
	File      UploadedFile `json:"file"`
}

// JobStatusResponse is the poll answer for one asynchronous run.
type JobStatusResponse struct {
	processor.Job
	ErrorKind    string `json:"error,omitempty"`
	ErrorMessage string `json:"message,omitempty"`
}
