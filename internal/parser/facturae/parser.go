// Package facturae parses Facturae (Spanish electronic invoice) XML
// documents into the view model. Versions 3.2, 3.2.1 and 3.2.2 are
// supported; they nest the relevant blocks at different depths, which is
// why extraction works by tag name rather than by path.
package facturae

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/facturaview/facturaview/internal/amount"
	"github.com/facturaview/facturaview/internal/model"
)

// SupportedVersions are the accepted SchemaVersion literals
var SupportedVersions = []string{"3.2", "3.2.1", "3.2.2"}

// Parse parses a Facturae XML document. The input is one in-memory
// document; the returned model is immutable and every failure is a
// *model.FacturaeError with a classified kind. Parsing is a pure function
// of its input: no state is shared across calls.
func Parse(xmlText []byte) (*model.ParsedDocument, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlText); err != nil {
		return nil, model.NewFacturaeError(model.ErrXMLMalformed, err.Error(), err)
	}

	root := doc.Root()
	if root == nil {
		return nil, model.NewFacturaeError(model.ErrXMLMalformed, "document has no root element", nil)
	}

	if !looksLikeFacturae(root) {
		return nil, model.NewFacturaeError(model.ErrNotFacturae, fmt.Sprintf("root element is <%s>", root.Tag), nil)
	}

	version := text(root, "SchemaVersion")
	if version != "" && !isSupportedVersion(version) {
		return nil, model.NewFacturaeError(model.ErrUnsupportedVersion, "detected version: "+version, nil)
	}

	invoiceElems := findAll(root, "Invoice")
	if len(invoiceElems) == 0 {
		return nil, model.NewFacturaeError(model.ErrNoInvoices, "no Invoice elements found", nil)
	}

	invoices := make([]model.Invoice, 0, len(invoiceElems))
	for _, inv := range invoiceElems {
		invoices = append(invoices, parseInvoice(inv))
	}

	if invoices[0].Totals == nil {
		return nil, model.NewFacturaeError(model.ErrMissingTotals, "first invoice has no InvoiceTotals block", nil)
	}

	return &model.ParsedDocument{
		SchemaVersion: version,
		FileHeader:    parseFileHeader(root, version),
		Seller:        parseParty(root, "SellerParty"),
		Buyer:         parseParty(root, "BuyerParty"),
		Invoices:      invoices,
		IsSigned:      findFirst(root, "Signature") != nil,
	}, nil
}

// looksLikeFacturae accepts documents whose root tag mentions Facturae, or
// that carry at least one of the structural elements every variant has.
// Signed .xsig files sometimes wrap the invoice, hence the element probe.
func looksLikeFacturae(root *etree.Element) bool {
	if strings.Contains(root.Tag, "Facturae") {
		return true
	}
	return findFirstAny(root, "FileHeader", "Invoices", "SellerParty") != nil
}

func isSupportedVersion(version string) bool {
	for _, v := range SupportedVersions {
		if v == version {
			return true
		}
	}
	return false
}

func parseFileHeader(root *etree.Element, version string) model.FileHeader {
	header := model.FileHeader{
		SchemaVersion:     version,
		Modality:          text(root, "Modality"),
		InvoiceIssuerType: text(root, "InvoiceIssuerType"),
		CurrencyCode:      text(root, "InvoiceCurrencyCode"),
	}
	if header.CurrencyCode == "" {
		header.CurrencyCode = "EUR"
	}
	if header.Modality == model.ModalityBatch {
		header.Batch = parseBatch(root)
	}
	return header
}

func parseBatch(root *etree.Element) *model.BatchInfo {
	batch := findFirst(root, "Batch")
	if batch == nil {
		return nil
	}
	info := &model.BatchInfo{
		Identifier:    text(batch, "BatchIdentifier"),
		InvoicesCount: amount.ParseIntOrZero(text(batch, "InvoicesCount")),
	}
	if total := findFirst(batch, "TotalInvoicesAmount"); total != nil {
		info.TotalAmount = amount.ParseOrZero(text(total, "TotalAmount"))
	}
	return info
}

func parseParty(root *etree.Element, partyTag string) *model.Party {
	party := findFirst(root, partyTag)
	if party == nil {
		return nil
	}

	isLegal := findFirst(party, "LegalEntity") != nil

	p := &model.Party{
		TaxID:      textPtr(party, "TaxIdentificationNumber"),
		PersonType: text(party, "PersonTypeCode"),
		Address:    parseAddress(party),
	}
	if isLegal {
		p.Type = model.PartyTypeLegal
		p.Name = text(party, "CorporateName")
	} else {
		p.Type = model.PartyTypeIndividual
		p.Name = joinNameParts(
			text(party, "Name"),
			text(party, "FirstSurname"),
			text(party, "SecondSurname"),
		)
	}
	return p
}

// joinNameParts space-joins the non-empty parts of an individual's name
func joinNameParts(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func parseAddress(party *etree.Element) *model.Address {
	addr := findFirstAny(party, "AddressInSpain", "OverseasAddress")
	if addr == nil {
		return nil
	}
	a := &model.Address{
		Street:   textPtr(addr, "Address"),
		PostCode: textPtr(addr, "PostCode"),
		Town:     textPtr(addr, "Town"),
		Province: textPtr(addr, "Province"),
		Country:  text(addr, "CountryCode"),
	}
	if a.Country == "" {
		a.Country = "ESP"
	}
	return a
}

func parseInvoice(inv *etree.Element) model.Invoice {
	return model.Invoice{
		Number:       text(inv, "InvoiceNumber"),
		Series:       text(inv, "InvoiceSeriesCode"),
		IssueDate:    text(inv, "IssueDate"),
		InvoiceType:  text(inv, "InvoiceDocumentType"),
		InvoiceClass: text(inv, "InvoiceClass"),
		Lines:        parseLines(inv),
		Taxes:        parseInvoiceTaxes(inv),
		Totals:       parseTotals(inv),
		Payment:      parsePayment(inv),
	}
}

func parseLines(inv *etree.Element) []model.Line {
	lineElems := findAll(inv, "InvoiceLine")
	lines := make([]model.Line, 0, len(lineElems))
	for _, line := range lineElems {
		lines = append(lines, model.Line{
			Description: text(line, "ItemDescription"),
			Quantity:    amount.ParseOrZero(text(line, "Quantity")),
			UnitPrice:   amount.ParseOrZero(text(line, "UnitPriceWithoutTax")),
			TotalAmount: amount.ParseOrZero(text(line, "TotalCost")),
			GrossAmount: amount.ParseOrZero(text(line, "GrossAmount")),
			TaxRate:     parseLineTaxRate(line),
		})
	}
	return lines
}

// parseLineTaxRate reads the rate from the line's own nested
// TaxesOutputs/Tax block, first match only. Kept separate from
// parseInvoiceTaxes: the two scopes must never mix.
func parseLineTaxRate(line *etree.Element) decimal.Decimal {
	outputs := findFirst(line, "TaxesOutputs")
	if outputs == nil {
		return amount.Zero
	}
	tax := findFirst(outputs, "Tax")
	if tax == nil {
		return amount.Zero
	}
	return amount.ParseOrZero(text(tax, "TaxRate"))
}

// parseInvoiceTaxes reads the invoice-level tax breakdown: only Tax
// elements under a TaxesOutputs that is a direct child of the invoice.
// The TaxesOutputs blocks inside InvoiceLine elements never reach here.
func parseInvoiceTaxes(inv *etree.Element) []model.Tax {
	outputs := directChild(inv, "TaxesOutputs")
	if outputs == nil {
		return nil
	}
	taxElems := findAll(outputs, "Tax")
	taxes := make([]model.Tax, 0, len(taxElems))
	for _, tax := range taxElems {
		t := model.Tax{
			Type: text(tax, "TaxTypeCode"),
			Rate: amount.ParseOrZero(text(tax, "TaxRate")),
		}
		if base := findFirst(tax, "TaxableBase"); base != nil {
			t.Base = amount.ParseOrZero(text(base, "TotalAmount"))
		}
		if amt := findFirst(tax, "TaxAmount"); amt != nil {
			t.Amount = amount.ParseOrZero(text(amt, "TotalAmount"))
		}
		taxes = append(taxes, t)
	}
	return taxes
}

func parseTotals(inv *etree.Element) *model.Totals {
	totals := findFirst(inv, "InvoiceTotals")
	if totals == nil {
		return nil
	}
	return &model.Totals{
		GrossAmount:            amount.ParseOrZero(text(totals, "TotalGrossAmount")),
		GeneralDiscounts:       amount.ParseOrZero(text(totals, "TotalGeneralDiscounts")),
		GeneralSurcharges:      amount.ParseOrZero(text(totals, "TotalGeneralSurcharges")),
		GrossAmountBeforeTaxes: amount.ParseOrZero(text(totals, "TotalGrossAmountBeforeTaxes")),
		TaxOutputs:             amount.ParseOrZero(text(totals, "TotalTaxOutputs")),
		TaxesWithheld:          amount.ParseOrZero(text(totals, "TotalTaxesWithheld")),
		InvoiceTotal:           amount.ParseOrZero(text(totals, "InvoiceTotal")),
		TotalOutstanding:       amount.ParseOrZero(text(totals, "TotalOutstandingAmount")),
		TotalToPay:             amount.ParseOrZero(text(totals, "TotalExecutableAmount")),
	}
}

// parsePayment reads the first Installment under PaymentDetails, or nil
func parsePayment(inv *etree.Element) *model.Payment {
	details := findFirst(inv, "PaymentDetails")
	if details == nil {
		return nil
	}
	installment := findFirst(details, "Installment")
	if installment == nil {
		return nil
	}
	p := &model.Payment{
		DueDate:      text(installment, "InstallmentDueDate"),
		Amount:       amount.ParseOrZero(text(installment, "InstallmentAmount")),
		PaymentMeans: text(installment, "PaymentMeans"),
	}
	if account := findFirst(installment, "AccountToBeCredited"); account != nil {
		p.IBAN = textPtr(account, "IBAN")
		p.BIC = textPtr(account, "BIC")
	}
	return p
}
