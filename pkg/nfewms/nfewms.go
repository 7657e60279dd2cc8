// Package nfewms provides a public API for forwarding Brazilian NF-e
// invoices to the Corpem WMS.
//
// This package exposes the core types for extracting an invoice from
// XML and performing the ordered two-phase submission (products, then
// goods receipt).
//
// Example usage:
//
//	p := nfewms.NewProcessor(nfewms.Options{
//	    Endpoint:      "http://wms.example:37560/scripts/mh.dll/wc",
//	    Token:         "secret",
//	    OperatorTaxID: "07876967000180",
//	})
//	result := p.Process(ctx, xmlBytes)
//	if result.Failed() {
//	    log.Fatal(result.Err)
//	}
package nfewms

import "github.com/rezonia/nfe-wms-connector/internal/model"

// Re-export core types for public API
type (
	InvoiceDocument   = model.InvoiceDocument
	LineItem          = model.LineItem
	ProductSubmission = model.ProductSubmission
	InvoiceSubmission = model.InvoiceSubmission
	SubmissionStatus  = model.SubmissionStatus
	ErrorKind         = model.Kind
)

// Re-export submission statuses
const (
	StatusSuccess        = model.StatusSuccess
	StatusVendorError    = model.StatusVendorError
	StatusTransportError = model.StatusTransportError
)

// Re-export error kinds
const (
	KindMalformedDocument  = model.KindMalformedDocument
	KindInvalidStructure   = model.KindInvalidStructure
	KindMissingInvoiceKey  = model.KindMissingInvoiceKey
	KindMissingProductCode = model.KindMissingProductCode
	KindVendorError        = model.KindVendorError
	KindTransportError     = model.KindTransportError
)

// Re-export error types
type (
	MalformedDocumentError  = model.MalformedDocumentError
	InvalidStructureError   = model.InvalidStructureError
	MissingInvoiceKeyError  = model.MissingInvoiceKeyError
	MissingProductCodeError = model.MissingProductCodeError
	VendorError             = model.VendorError
	TransportError          = model.TransportError
)
