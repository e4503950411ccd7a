// Package facturae is the public API for parsing Facturae (Spanish
// electronic invoice) XML documents.
//
// Example usage:
//
//	doc, err := facturae.Parse(xmlBytes)
//	if err != nil {
//	    var fe *facturae.Error
//	    if errors.As(err, &fe) {
//	        fmt.Println(fe.Friendly(facturae.LocaleES))
//	    }
//	    return
//	}
//	fmt.Println(doc.Invoices[0].Totals.InvoiceTotal)
package facturae

import (
	"github.com/facturaview/facturaview/internal/model"
	"github.com/facturaview/facturaview/internal/parser/facturae"
)

// Re-export core types for the public API
type (
	ParsedDocument = model.ParsedDocument
	FileHeader     = model.FileHeader
	BatchInfo      = model.BatchInfo
	Party          = model.Party
	Address        = model.Address
	Invoice        = model.Invoice
	Line           = model.Line
	Tax            = model.Tax
	Totals         = model.Totals
	Payment        = model.Payment
	PartyType      = model.PartyType

	Error     = model.FacturaeError
	ErrKind   = model.ErrKind
	Locale    = model.Locale
	Selection = facturae.Selection
)

// Re-export party types
const (
	PartyTypeLegal      = model.PartyTypeLegal
	PartyTypeIndividual = model.PartyTypeIndividual
)

// Re-export error kinds
const (
	ErrXMLMalformed       = model.ErrXMLMalformed
	ErrNotFacturae        = model.ErrNotFacturae
	ErrNoInvoices         = model.ErrNoInvoices
	ErrUnsupportedVersion = model.ErrUnsupportedVersion
	ErrMissingSeller      = model.ErrMissingSeller
	ErrMissingBuyer       = model.ErrMissingBuyer
	ErrMissingTotals      = model.ErrMissingTotals
	ErrUnknown            = model.ErrUnknown
)

// Re-export locales
const (
	LocaleES = model.LocaleES
	LocaleEN = model.LocaleEN
)

// SupportedVersions are the accepted SchemaVersion literals
var SupportedVersions = facturae.SupportedVersions

// Parse parses a Facturae XML document into its view model. Every failure
// is a *Error carrying a classified kind and a localized friendly message.
func Parse(xmlText []byte) (*ParsedDocument, error) {
	return facturae.Parse(xmlText)
}

// IsBatch reports whether the document is a lote (multiple invoices, or
// Modality "L" even with a single one).
func IsBatch(doc *ParsedDocument) bool {
	return facturae.IsBatch(doc)
}

// NewSelection creates invoice navigation state over a parsed document
func NewSelection(doc *ParsedDocument) *Selection {
	return facturae.NewSelection(doc)
}

// Classify maps an arbitrary error onto an ErrKind
func Classify(err error) ErrKind {
	return model.Classify(err)
}

// FriendlyMessage returns the localized user-facing text for a kind
func FriendlyMessage(kind ErrKind, locale Locale) string {
	return model.FriendlyMessage(kind, locale)
}
