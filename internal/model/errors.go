package model

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error classification carried on every
// failure response.
type Kind string

const (
	KindMalformedDocument  Kind = "MALFORMED_DOCUMENT"
	KindInvalidStructure   Kind = "INVALID_STRUCTURE"
	KindMissingInvoiceKey  Kind = "MISSING_INVOICE_KEY"
	KindMissingProductCode Kind = "MISSING_PRODUCT_CODE"
	KindVendorError        Kind = "VENDOR_ERROR"
	KindTransportError     Kind = "TRANSPORT_ERROR"
	KindInternal           Kind = "INTERNAL"
)

// MalformedDocumentError indicates the input is not well-formed XML.
type MalformedDocumentError struct {
	Cause error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed XML document: %v", e.Cause)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Cause }

func (e *MalformedDocumentError) Kind() Kind { return KindMalformedDocument }

// NewMalformedDocumentError creates a new malformed document error
func NewMalformedDocumentError(cause error) *MalformedDocumentError {
	return &MalformedDocumentError{Cause: cause}
}

// InvalidStructureError indicates the XML parsed but the expected
// invoice root node is absent.
type InvalidStructureError struct {
	Missing string
}

func (e *InvalidStructureError) Error() string {
	return fmt.Sprintf("invalid NF-e structure: %s not found", e.Missing)
}

func (e *InvalidStructureError) Kind() Kind { return KindInvalidStructure }

// NewInvalidStructureError creates a new invalid structure error
func NewInvalidStructureError(missing string) *InvalidStructureError {
	return &InvalidStructureError{Missing: missing}
}

// MissingInvoiceKeyError indicates no 44-digit access key could be
// resolved. Candidate carries the best value found, for diagnostics.
type MissingInvoiceKeyError struct {
	Candidate string
}

func (e *MissingInvoiceKeyError) Error() string {
	if e.Candidate == "" {
		return "no NF-e access key found in document"
	}
	return fmt.Sprintf("NF-e access key candidate %q is not 44 digits", e.Candidate)
}

func (e *MissingInvoiceKeyError) Kind() Kind { return KindMissingInvoiceKey }

// NewMissingInvoiceKeyError creates a new missing invoice key error
func NewMissingInvoiceKeyError(candidate string) *MissingInvoiceKeyError {
	return &MissingInvoiceKeyError{Candidate: candidate}
}

// MissingProductCodeError indicates a line item without a product code.
// Partial catalogs corrupt the warehouse, so this aborts the whole run.
type MissingProductCodeError struct {
	Line int
}

func (e *MissingProductCodeError) Error() string {
	return fmt.Sprintf("line item %d has no product code (cProd)", e.Line)
}

func (e *MissingProductCodeError) Kind() Kind { return KindMissingProductCode }

// NewMissingProductCodeError creates a new missing product code error
func NewMissingProductCodeError(line int) *MissingProductCodeError {
	return &MissingProductCodeError{Line: line}
}

// VendorError indicates the WMS received the request but rejected it.
// A CORPEM_WS_ERRO body is a vendor error even on HTTP 200.
type VendorError struct {
	Message    string
	StatusCode int
}

func (e *VendorError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("WMS rejected request (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("WMS rejected request: %s", e.Message)
}

func (e *VendorError) Kind() Kind { return KindVendorError }

// NewVendorError creates a new vendor error
func NewVendorError(message string, statusCode int) *VendorError {
	return &VendorError{Message: message, StatusCode: statusCode}
}

// TransportError indicates the WMS was never reached or never answered.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("no response from WMS: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

func (e *TransportError) Kind() Kind { return KindTransportError }

// NewTransportError creates a new transport error
func NewTransportError(cause error) *TransportError {
	return &TransportError{Cause: cause}
}

// Kinder is implemented by every error in this package.
type Kinder interface {
	Kind() Kind
}

// KindOf classifies an arbitrary error, falling back to KindInternal.
func KindOf(err error) Kind {
	var k Kinder
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}
