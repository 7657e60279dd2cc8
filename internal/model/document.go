package model

import "github.com/shopspring/decimal"

// AccessKeyLength is the length of an authorized NF-e access key.
const AccessKeyLength = 44

// InvoiceDocument is the typed view of one NF-e extracted from XML.
type InvoiceDocument struct {
	// EmitterTaxID and RecipientTaxID are CNPJ values, digits only.
	EmitterTaxID   string `json:"emitter_tax_id"`
	RecipientTaxID string `json:"recipient_tax_id"`

	Number string `json:"number"`
	Series string `json:"series"`

	// IssuedAt is the raw emission timestamp as found in the XML.
	// IssueDate is the same instant normalized to DD/MM/YYYY, or empty
	// when the timestamp could not be recovered.
	IssuedAt  string `json:"issued_at"`
	IssueDate string `json:"issue_date"`

	// DeclaredTotal is the header vNF, kept for comparison only.
	// Total is recomputed from the line items and is the value used
	// in every outgoing payload.
	DeclaredTotal decimal.Decimal `json:"declared_total"`
	Total         decimal.Decimal `json:"total"`

	// AccessKey is exactly 44 digits once extraction succeeds.
	AccessKey string `json:"access_key"`

	Items []LineItem `json:"items"`

	// Warnings collects non-fatal anomalies found during extraction,
	// such as <det> entries without product data.
	Warnings []string `json:"warnings,omitempty"`
}

// LineItem is one <det> entry of the invoice.
type LineItem struct {
	// Line is the document position of the entry (the nItem
	// attribute), preserved even when earlier entries were skipped.
	Line int `json:"line"`

	Code        string `json:"code"`
	Description string `json:"description"`

	// NCM holds the tax classification, digits only, at most 8 chars.
	NCM string `json:"ncm"`

	// Unit is the commercial unit code, "UN" when the XML omits it.
	Unit    string `json:"unit"`
	Barcode string `json:"barcode"`

	Quantity  decimal.Decimal `json:"quantity"`
	UnitValue decimal.Decimal `json:"unit_value"`

	// Value is the line total (vProd) rounded to 2 decimal places.
	Value decimal.Decimal `json:"value"`
}
