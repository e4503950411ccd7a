package model

import (
	"github.com/shopspring/decimal"
)

// PartyType distinguishes legal entities from individuals
type PartyType string

const (
	PartyTypeLegal      PartyType = "legal"
	PartyTypeIndividual PartyType = "individual"
)

// Modality codes from the Facturae file header
const (
	ModalitySingle = "I"
	ModalityBatch  = "L"
)

// ParsedDocument is the read-only view model produced by one parse pass.
// Invoices is never empty and Invoices[0].Totals is never nil on a
// successfully parsed document.
type ParsedDocument struct {
	SchemaVersion string     `json:"schema_version"`
	FileHeader    FileHeader `json:"file_header"`
	Seller        *Party     `json:"seller"`
	Buyer         *Party     `json:"buyer"`
	Invoices      []Invoice  `json:"invoices"`
	IsSigned      bool       `json:"is_signed"`
}

// FileHeader holds document-level metadata
type FileHeader struct {
	SchemaVersion     string     `json:"schema_version"`
	Modality          string     `json:"modality"`
	InvoiceIssuerType string     `json:"invoice_issuer_type"`
	CurrencyCode      string     `json:"currency_code"`
	Batch             *BatchInfo `json:"batch,omitempty"`
}

// BatchInfo describes a lote (multi-invoice) file header block
type BatchInfo struct {
	Identifier    string          `json:"identifier"`
	InvoicesCount int             `json:"invoices_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// Party represents the seller or buyer of an invoice.
// Name is the corporate name for legal entities, or the space-joined
// given name + surnames for individuals.
type Party struct {
	Type       PartyType `json:"type"`
	TaxID      *string   `json:"tax_id"`
	PersonType string    `json:"person_type"`
	Name       string    `json:"name"`
	Address    *Address  `json:"address,omitempty"`
}

// Address from an AddressInSpain or OverseasAddress block.
// Leaf fields stay nil when the source element is absent so renderers can
// tell absent from present-but-empty.
type Address struct {
	Street   *string `json:"street"`
	PostCode *string `json:"post_code"`
	Town     *string `json:"town"`
	Province *string `json:"province"`
	Country  string  `json:"country"`
}

// Invoice is one invoice within a document (batch files carry several)
type Invoice struct {
	Number       string   `json:"number"`
	Series       string   `json:"series"`
	IssueDate    string   `json:"issue_date"`
	InvoiceType  string   `json:"invoice_type"`
	InvoiceClass string   `json:"invoice_class"`
	Lines        []Line   `json:"lines"`
	Taxes        []Tax    `json:"taxes"`
	Totals       *Totals  `json:"totals"`
	Payment      *Payment `json:"payment,omitempty"`
}

// Line is a single InvoiceLine. TaxRate comes from the line's own nested
// tax block, not from the invoice-level tax breakdown.
type Line struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// Tax is one entry of the invoice-level tax breakdown
type Tax struct {
	Type   string          `json:"type"`
	Rate   decimal.Decimal `json:"rate"`
	Base   decimal.Decimal `json:"base"`
	Amount decimal.Decimal `json:"amount"`
}

// Totals holds the InvoiceTotals amounts. All fields default to zero when
// absent and may be negative (corrective invoices).
type Totals struct {
	GrossAmount            decimal.Decimal `json:"gross_amount"`
	GeneralDiscounts       decimal.Decimal `json:"general_discounts"`
	GeneralSurcharges      decimal.Decimal `json:"general_surcharges"`
	GrossAmountBeforeTaxes decimal.Decimal `json:"gross_amount_before_taxes"`
	TaxOutputs             decimal.Decimal `json:"tax_outputs"`
	TaxesWithheld          decimal.Decimal `json:"taxes_withheld"`
	InvoiceTotal           decimal.Decimal `json:"invoice_total"`
	TotalOutstanding       decimal.Decimal `json:"total_outstanding"`
	TotalToPay             decimal.Decimal `json:"total_to_pay"`
}

// Payment is derived from the first Installment block only
type Payment struct {
	DueDate      string          `json:"due_date"`
	Amount       decimal.Decimal `json:"amount"`
	PaymentMeans string          `json:"payment_means"`
	IBAN         *string         `json:"iban"`
	BIC          *string         `json:"bic"`
}

// IsLegalEntity reports whether the party is a company
func (p *Party) IsLegalEntity() bool {
	return p != nil && p.Type == PartyTypeLegal
}
