package model

import "encoding/json"

// SubmissionStatus classifies the outcome of one WMS call.
type SubmissionStatus string

const (
	// StatusSuccess means the WMS accepted the payload.
	StatusSuccess SubmissionStatus = "SUCCESS"
	// StatusVendorError means the call completed but the WMS rejected
	// the payload (CORPEM_WS_ERRO or non-2xx response).
	StatusVendorError SubmissionStatus = "VENDOR_ERROR"
	// StatusTransportError means no response was received at all.
	StatusTransportError SubmissionStatus = "TRANSPORT_ERROR"
)

// StatusForError maps a submission error to its status.
func StatusForError(err error) SubmissionStatus {
	switch KindOf(err) {
	case KindTransportError:
		return StatusTransportError
	default:
		return StatusVendorError
	}
}

// ProductSubmission is the per-product outcome of the catalog phase.
// Payload and Response are kept verbatim so callers can see exactly
// what was sent and what the vendor answered.
type ProductSubmission struct {
	Code     string           `json:"product_code"`
	Name     string           `json:"product_name"`
	Payload  json.RawMessage  `json:"payload_sent"`
	Response json.RawMessage  `json:"wms_response,omitempty"`
	Status   SubmissionStatus `json:"status"`
}

// InvoiceSubmission is the outcome of the goods-receipt phase.
type InvoiceSubmission struct {
	Payload  json.RawMessage  `json:"payload_sent"`
	Response json.RawMessage  `json:"wms_response,omitempty"`
	Status   SubmissionStatus `json:"status"`
}
