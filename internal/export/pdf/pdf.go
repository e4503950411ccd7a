// Package pdf renders one invoice of a parsed document as an A4 summary.
// The page is described as a pdfcpu create-JSON document and handed to the
// pdfcpu engine, so no imperative drawing code lives here.
package pdf

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/shopspring/decimal"

	"github.com/facturaview/facturaview/internal/export"
	"github.com/facturaview/facturaview/internal/model"
	"github.com/facturaview/facturaview/internal/parser/facturae"
)

// Page geometry in points (A4 portrait, upper-left origin)
const (
	pageWidth  = 595.0
	margin     = 56.0
	lineHeight = 14.0
)

// Muted palette matching the viewer UI
const (
	colorDark   = "#1F2937"
	colorMedium = "#6B7280"
	colorLight  = "#9CA3AF"
)

type textEntry struct {
	Value     string    `json:"value"`
	Position  []float64 `json:"position"`
	Font      font      `json:"font"`
	FillColor string    `json:"fillColor,omitempty"`
}

type font struct {
	Name string  `json:"name"`
	Size float64 `json:"size"`
}

type pageContent struct {
	Text []textEntry `json:"text"`
}

type page struct {
	Content pageContent `json:"content"`
}

type createDoc struct {
	Paper  string          `json:"paper"`
	Origin string          `json:"origin"`
	Pages  map[string]page `json:"pages"`
}

// builder accumulates positioned text, tracking the current baseline
type builder struct {
	entries []textEntry
	y       float64
}

func (b *builder) add(value string, x, size float64, color string) {
	if value == "" {
		return
	}
	b.entries = append(b.entries, textEntry{
		Value:     value,
		Position:  []float64{x, b.y},
		Font:      font{Name: "Helvetica", Size: size},
		FillColor: color,
	})
}

func (b *builder) newline(h float64) {
	b.y += h
}

// Export renders the invoice at the given index (clamped) into PDF bytes
func Export(doc *model.ParsedDocument, invoiceIndex int) ([]byte, error) {
	inv := &doc.Invoices[facturae.ClampIndex(doc, invoiceIndex)]

	b := &builder{y: margin}
	writeHeader(b, doc, inv)
	writeParties(b, doc)
	writeLines(b, inv)
	writeTotals(b, inv)
	writePayment(b, inv)

	payload, err := json.Marshal(createDoc{
		Paper:  "A4",
		Origin: "upperLeft",
		Pages:  map[string]page{"1": {Content: pageContent{Text: b.entries}}},
	})
	if err != nil {
		return nil, fmt.Errorf("building page description: %w", err)
	}

	var out bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(payload), &out, nil); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return out.Bytes(), nil
}

// FileName returns the download name for the PDF
func FileName(doc *model.ParsedDocument, invoiceIndex int) string {
	inv := &doc.Invoices[facturae.ClampIndex(doc, invoiceIndex)]
	return export.Filename("factura", inv, ".pdf")
}

func writeHeader(b *builder, doc *model.ParsedDocument, inv *model.Invoice) {
	number := inv.Number
	if inv.Series != "" {
		number = inv.Series + "/" + inv.Number
	}
	b.add("FACTURA Nº: "+number, margin, 16, colorDark)
	b.add("Fecha: "+inv.IssueDate, pageWidth-margin-140, 10, colorMedium)
	b.newline(lineHeight)
	b.add("Versión Facturae: "+doc.SchemaVersion, pageWidth-margin-140, 10, colorMedium)
	b.newline(lineHeight * 2)
}

func writeParties(b *builder, doc *model.ParsedDocument) {
	col2 := margin + (pageWidth-2*margin)/2

	b.add("EMISOR", margin, 10, colorMedium)
	b.add("RECEPTOR", col2, 10, colorMedium)
	b.newline(lineHeight)
	b.add(partyLine(doc.Seller), margin, 11, colorDark)
	b.add(partyLine(doc.Buyer), col2, 11, colorDark)
	b.newline(lineHeight)
	b.add(export.FormatAddress(addressOf(doc.Seller)), margin, 9, colorLight)
	b.add(export.FormatAddress(addressOf(doc.Buyer)), col2, 9, colorLight)
	b.newline(lineHeight * 2)
}

func writeLines(b *builder, inv *model.Invoice) {
	cols := []float64{margin, margin + 230, margin + 290, margin + 360, margin + 420}

	b.add("Descripción", cols[0], 9, colorMedium)
	b.add("Cantidad", cols[1], 9, colorMedium)
	b.add("Precio", cols[2], 9, colorMedium)
	b.add("IVA %", cols[3], 9, colorMedium)
	b.add("Importe", cols[4], 9, colorMedium)
	b.newline(lineHeight)

	for _, line := range inv.Lines {
		desc := line.Description
		if len(desc) > 48 {
			desc = desc[:45] + "..."
		}
		gross := line.GrossAmount
		if gross.IsZero() {
			gross = line.TotalAmount
		}
		b.add(desc, cols[0], 10, colorDark)
		b.add(line.Quantity.String(), cols[1], 10, colorDark)
		b.add(money(line.UnitPrice), cols[2], 10, colorDark)
		b.add(line.TaxRate.String(), cols[3], 10, colorDark)
		b.add(money(gross), cols[4], 10, colorDark)
		b.newline(lineHeight)
	}
	b.newline(lineHeight)
}

func writeTotals(b *builder, inv *model.Invoice) {
	totals := inv.Totals
	if totals == nil {
		return
	}
	labelX := pageWidth - margin - 220
	valueX := pageWidth - margin - 80

	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Base imponible", totals.GrossAmount},
		{"Total impuestos", totals.TaxOutputs},
		{"Retenciones", totals.TaxesWithheld},
		{"Total factura", totals.InvoiceTotal},
		{"TOTAL A PAGAR", totals.TotalToPay},
	}
	for _, r := range rows {
		b.add(r.label, labelX, 10, colorMedium)
		b.add(money(r.value), valueX, 10, colorDark)
		b.newline(lineHeight)
	}
	b.newline(lineHeight)
}

func writePayment(b *builder, inv *model.Invoice) {
	p := inv.Payment
	if p == nil {
		return
	}
	b.add("PAGO", margin, 10, colorMedium)
	b.newline(lineHeight)
	b.add(export.PaymentMeansLabel(p.PaymentMeans)+"  ·  Vencimiento: "+p.DueDate, margin, 10, colorDark)
	b.newline(lineHeight)
	if p.IBAN != nil && *p.IBAN != "" {
		b.add("IBAN: "+*p.IBAN, margin, 10, colorDark)
		b.newline(lineHeight)
	}
}

func partyLine(p *model.Party) string {
	if p == nil {
		return "Sin datos"
	}
	if p.TaxID != nil && *p.TaxID != "" {
		return p.Name + " · " + *p.TaxID
	}
	return p.Name
}

func addressOf(p *model.Party) *model.Address {
	if p == nil {
		return nil
	}
	return p.Address
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2) + " €"
}
