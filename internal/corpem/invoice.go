package corpem

import (
	"fmt"
	"strconv"

	dec "github.com/rezonia/nfe-wms-connector/internal/decimal"
	"github.com/rezonia/nfe-wms-connector/internal/model"
)

// destinationOther is TPDESTNF "2", the fixed destination type for
// these receipts.
const destinationOther = "2"

// MapInvoice derives the goods-receipt request from the document.
// Pure and infallible: a field the extractor could not fill degrades
// to an empty string here, never to an error. The total is the
// recomputed one, not the header's declared value.
//
// DEV is always "0": this pipeline only handles regular inbound
// invoices, so CHAVENF_DEV and per-item NUMSEQ_DEV stay empty.
func MapInvoice(doc *model.InvoiceDocument) *GoodsReceiptRequest {
	items := make([]ReceiptItem, 0, len(doc.Items))
	for i, item := range doc.Items {
		items = append(items, ReceiptItem{
			Sequence:    strconv.Itoa(i + 1),
			ProductCode: item.Code,
			Quantity:    item.Quantity.String(),
			Total:       dec.FormatAmount(item.Value),
		})
	}

	return &GoodsReceiptRequest{
		Receipt: GoodsReceipt{
			RecipientTaxID:  doc.RecipientTaxID,
			SenderTaxID:     doc.EmitterTaxID,
			Note:            fmt.Sprintf("N.F.: %s", doc.Number),
			DestinationType: destinationOther,
			ReturnFlag:      flagOff,
			Number:          doc.Number,
			Series:          doc.Series,
			IssueDate:       doc.IssueDate,
			Total:           dec.FormatAmount(doc.Total),
			CustomerOrder:   fmt.Sprintf("N.F. %s", doc.Number),
			AccessKey:       doc.AccessKey,
			Items:           items,
		},
	}
}
