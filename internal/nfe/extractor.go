// Package nfe extracts a typed invoice document from the generic XML
// tree of a Brazilian NF-e.
package nfe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	dec "github.com/rezonia/nfe-wms-connector/internal/decimal"
	"github.com/rezonia/nfe-wms-connector/internal/model"
	"github.com/rezonia/nfe-wms-connector/internal/xmltree"
)

const (
	accessKeyPrefix = "NFe"
	defaultUnit     = "UN"
	maxNCMLength    = 8
)

var nonDigits = regexp.MustCompile(`\D`)

// DigitsOnly strips every non-digit character, the normalization
// applied to CNPJ, NCM and access key values.
func DigitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithForcedKey overrides the resolved access key. This is a debugging
// escape hatch; the dynamic three-tier resolution is the contract.
func WithForcedKey(key string) Option {
	return func(e *Extractor) { e.forcedKey = key }
}

// Extractor walks a decoded NF-e tree and produces an InvoiceDocument.
type Extractor struct {
	log       *zap.Logger
	forcedKey string
}

// NewExtractor creates an extractor. A nil logger disables logging.
func NewExtractor(log *zap.Logger, opts ...Option) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Extractor{log: log}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract produces the typed document. The root may be wrapped in
// <nfeProc> (authorized invoice with protocol) or be a bare <NFe>.
func (e *Extractor) Extract(root *xmltree.Node) (*model.InvoiceDocument, error) {
	infNFe := root.Child("nfeProc", "NFe", "infNFe")
	if infNFe == nil {
		infNFe = root.Child("NFe", "infNFe")
	}
	if infNFe == nil {
		return nil, model.NewInvalidStructureError("infNFe")
	}

	key, err := e.resolveAccessKey(root, infNFe)
	if err != nil {
		return nil, err
	}

	ide := infNFe.Child("ide")
	issuedAt := ide.Child("dhEmi").Text()
	if issuedAt == "" {
		// Older layout 2.00 documents carry dEmi instead.
		issuedAt = ide.Child("dEmi").Text()
	}

	doc := &model.InvoiceDocument{
		EmitterTaxID:   DigitsOnly(infNFe.Child("emit", "CNPJ").Text()),
		RecipientTaxID: DigitsOnly(infNFe.Child("dest", "CNPJ").Text()),
		Number:         ide.Child("nNF").Text(),
		Series:         ide.Child("serie").Text(),
		IssuedAt:       issuedAt,
		IssueDate:      FormatDate(issuedAt),
		AccessKey:      key,
		DeclaredTotal:  dec.ParseAmount(infNFe.Child("total", "ICMSTot", "vNF").Text()),
	}

	for i, det := range infNFe.Sequence("det") {
		line := i + 1
		if n, err := strconv.Atoi(det.Attr("nItem")); err == nil && n > 0 {
			line = n
		}

		prod := det.Child("prod")
		if prod == nil {
			warn := fmt.Sprintf("det %d has no <prod> element, item skipped", line)
			doc.Warnings = append(doc.Warnings, warn)
			e.log.Warn("line item without product data",
				zap.Int("nItem", line))
			continue
		}

		unit := prod.Child("uCom").Text()
		if unit == "" {
			unit = defaultUnit
		}

		ncm := DigitsOnly(prod.Child("NCM").Text())
		if len(ncm) > maxNCMLength {
			ncm = ncm[:maxNCMLength]
		}

		doc.Items = append(doc.Items, model.LineItem{
			Line:        line,
			Code:        prod.Child("cProd").Text(),
			Description: prod.Child("xProd").Text(),
			NCM:         ncm,
			Unit:        unit,
			Barcode:     barcode(prod),
			Quantity:    dec.ParseAmount(prod.Child("qCom").Text()),
			UnitValue:   dec.ParseAmount(prod.Child("vUnCom").Text()),
			Value:       dec.Round2(dec.ParseAmount(prod.Child("vProd").Text())),
		})
	}

	lineValues := make([]decimal.Decimal, 0, len(doc.Items))
	for _, item := range doc.Items {
		lineValues = append(lineValues, item.Value)
	}
	doc.Total = dec.SumRounded2(lineValues)

	if !doc.Total.Equal(doc.DeclaredTotal) {
		e.log.Info("recomputed total differs from declared header total",
			zap.String("declared", doc.DeclaredTotal.String()),
			zap.String("recomputed", doc.Total.String()),
			zap.String("invoice", doc.Number))
	}

	return doc, nil
}

// resolveAccessKey tries, in strict order: the authorization protocol
// key, the infNFe Id attribute with its "NFe" prefix stripped, and the
// bare Id attribute when it is already 44 characters. First match wins
// and must be exactly 44 digits.
func (e *Extractor) resolveAccessKey(root, infNFe *xmltree.Node) (string, error) {
	if e.forcedKey != "" {
		if len(e.forcedKey) != model.AccessKeyLength || !isDigits(e.forcedKey) {
			return "", model.NewMissingInvoiceKeyError(e.forcedKey)
		}
		e.log.Warn("using forced NF-e access key override",
			zap.String("key", e.forcedKey))
		return e.forcedKey, nil
	}

	var candidate string

	ch := root.Child("nfeProc", "protNFe", "infProt", "chNFe").Text()
	id := infNFe.Attr("Id")
	switch {
	case ch != "":
		candidate = ch
	case strings.HasPrefix(id, accessKeyPrefix):
		candidate = id[len(accessKeyPrefix):]
	case len(id) == model.AccessKeyLength:
		candidate = id
	}

	if len(candidate) != model.AccessKeyLength || !isDigits(candidate) {
		e.log.Error("could not resolve a valid 44-digit access key",
			zap.String("candidate", candidate))
		return "", model.NewMissingInvoiceKeyError(candidate)
	}
	return candidate, nil
}

// barcode prefers cEAN, treating the standard "SEM GTIN" placeholder
// as absent, and falls back to the taxable-unit barcode.
func barcode(prod *xmltree.Node) string {
	ean := prod.Child("cEAN").Text()
	if ean != "" && ean != "SEM GTIN" {
		return ean
	}
	tribEAN := prod.Child("cEANTrib").Text()
	if tribEAN == "SEM GTIN" {
		return ""
	}
	return tribEAN
}
