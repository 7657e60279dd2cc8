// Package corpem maps extracted invoice documents onto the Corpem WMS
// wire contract. Payloads are built once and never mutated afterward.
package corpem

// The WMS contract is all-string JSON with fixed Portuguese field
// names. Boolean-like flags are "0"/"1".

// ProductRegistration is one product-catalog upsert request body.
type ProductRegistration struct {
	Merchandise Merchandise `json:"CORPEM_ERP_MERC"`
}

// Merchandise describes a single product to register.
type Merchandise struct {
	OwnerTaxID       string      `json:"CGCCLIWMS"`
	Code             string      `json:"CODPROD"`
	Name             string      `json:"NOMEPROD"`
	ERPFlag          string      `json:"IWS_ERP"`
	PickoutPolicy    string      `json:"TPOLRET"`
	AutoExpiry       string      `json:"IAUTODTVEN"`
	ExpiryDays       string      `json:"QTDDPZOVEN"`
	LotControl       string      `json:"ILOTFAB"`
	MfgDateControl   string      `json:"IDTFAB"`
	ExpiryControl    string      `json:"IDTVEN"`
	SerialControl    string      `json:"INSER"`
	SkipLotCheckout  string      `json:"SEM_LOTE_CKO"`
	SkipExpCheckout  string      `json:"SEM_DTVEN_CKO"`
	ManufacturerCode string      `json:"CODFAB"`
	ManufacturerName string      `json:"NOMEFAB"`
	GroupCode        string      `json:"CODGRU"`
	GroupName        string      `json:"NOMEGRU"`
	SupplierCode     string      `json:"CODPROD_FORN"`
	NCM              string      `json:"NCM"`
	Packagings       []Packaging `json:"EMBALAGENS"`
}

// Packaging is one entry of the EMBALAGENS list.
type Packaging struct {
	UnitCode    string `json:"CODUNID"`
	Factor      string `json:"FATOR"`
	Barcode     string `json:"CODBARRA"`
	NetWeight   string `json:"PESOLIQ"`
	GrossWeight string `json:"PESOBRU"`
	Height      string `json:"ALT"`
	Width       string `json:"LAR"`
	Length      string `json:"COMP"`
	Volume      string `json:"VOL"`
	Inbound     string `json:"IEMB_ENT"`
	Outbound    string `json:"IEMB_SAI"`
}

// ProductCatalogRequest is the ordered set of registrations derived
// from one invoice, one per line item. Each registration is posted
// individually; the order matches the document.
type ProductCatalogRequest struct {
	Registrations []ProductRegistration
}

// GoodsReceiptRequest is the invoice/goods-receipt request body.
type GoodsReceiptRequest struct {
	Receipt GoodsReceipt `json:"CORPEM_ERP_DOC_ENT"`
}

// GoodsReceipt is the receipt header plus its items.
type GoodsReceipt struct {
	RecipientTaxID  string        `json:"CGCCLIWMS"`
	SenderTaxID     string        `json:"CGCREM"`
	Note            string        `json:"OBSRESDP"`
	DestinationType string        `json:"TPDESTNF"`
	ReturnFlag      string        `json:"DEV"`
	Number          string        `json:"NUMNF"`
	Series          string        `json:"SERIENF"`
	IssueDate       string        `json:"DTEMINF"`
	Total           string        `json:"VLTOTALNF"`
	CustomerOrder   string        `json:"NUMEPEDCLI"`
	AccessKey       string        `json:"CHAVENF"`
	ReturnAccessKey string        `json:"CHAVENF_DEV"`
	Items           []ReceiptItem `json:"ITENS"`
}

// ReceiptItem is one ITENS entry.
type ReceiptItem struct {
	Sequence       string `json:"NUMSEQ"`
	ProductCode    string `json:"CODPROD"`
	Quantity       string `json:"QTPROD"`
	Total          string `json:"VLTOTPROD"`
	ReturnSequence string `json:"NUMSEQ_DEV"`
}
