package corpem

import (
	"github.com/rezonia/nfe-wms-connector/internal/model"
)

// Flag values of the WMS contract.
const (
	flagOff = "0"
	flagOn  = "1"

	// fifoPolicy is TPOLRET "1": first in, first out.
	fifoPolicy = "1"

	zeroMeasure = "0.000"
	unitFactor  = "1"
)

// MapProducts derives the product-catalog request from the document,
// one registration per line item, order-preserving. ownerTaxID is the
// WMS operator CNPJ owning the catalog. Tracking flags stay disabled:
// the registration never infers stricter lot/expiry/serial control
// than the minimum needed to register the product.
//
// Fails only when a line item lacks a product code, which would
// corrupt the downstream catalog if skipped silently.
func MapProducts(doc *model.InvoiceDocument, ownerTaxID string) (*ProductCatalogRequest, error) {
	req := &ProductCatalogRequest{
		Registrations: make([]ProductRegistration, 0, len(doc.Items)),
	}

	for i, item := range doc.Items {
		if item.Code == "" {
			line := item.Line
			if line == 0 {
				line = i + 1
			}
			return nil, model.NewMissingProductCodeError(line)
		}

		req.Registrations = append(req.Registrations, ProductRegistration{
			Merchandise: Merchandise{
				OwnerTaxID:      ownerTaxID,
				Code:            item.Code,
				Name:            item.Description,
				ERPFlag:         flagOn,
				PickoutPolicy:   fifoPolicy,
				AutoExpiry:      flagOff,
				LotControl:      flagOff,
				MfgDateControl:  flagOff,
				ExpiryControl:   flagOff,
				SerialControl:   flagOff,
				SkipLotCheckout: flagOff,
				SkipExpCheckout: flagOff,
				NCM:             item.NCM,
				Packagings: []Packaging{
					{
						UnitCode:    item.Unit,
						Factor:      unitFactor,
						Barcode:     item.Barcode,
						NetWeight:   zeroMeasure,
						GrossWeight: zeroMeasure,
						Height:      zeroMeasure,
						Width:       zeroMeasure,
						Length:      zeroMeasure,
						Volume:      zeroMeasure,
						Inbound:     flagOn,
						Outbound:    flagOn,
					},
				},
			},
		})
	}

	return req, nil
}
