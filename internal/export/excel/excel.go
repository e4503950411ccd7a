// Package excel renders one invoice of a parsed document as a three-sheet
// workbook: general data, line items and tax breakdown.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/facturaview/facturaview/internal/amount"
	"github.com/facturaview/facturaview/internal/export"
	"github.com/facturaview/facturaview/internal/model"
	"github.com/facturaview/facturaview/internal/parser/facturae"
)

const (
	sheetGeneral = "General"
	sheetLines   = "Líneas"
	sheetTaxes   = "Impuestos"
)

// Export renders the invoice at the given index (clamped) into XLSX bytes
func Export(doc *model.ParsedDocument, invoiceIndex int) ([]byte, error) {
	inv := &doc.Invoices[facturae.ClampIndex(doc, invoiceIndex)]

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetGeneral); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	if err := writeGeneral(f, doc, inv); err != nil {
		return nil, err
	}
	if err := writeLines(f, inv); err != nil {
		return nil, err
	}
	if len(inv.Taxes) > 0 {
		if err := writeTaxes(f, inv); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName returns the download name for the workbook
func FileName(doc *model.ParsedDocument, invoiceIndex int) string {
	inv := &doc.Invoices[facturae.ClampIndex(doc, invoiceIndex)]
	return export.Filename("factura", inv, ".xlsx")
}

// row is one label/value pair of the General sheet; section rows carry an
// empty value.
type row struct {
	label string
	value any
}

func writeGeneral(f *excelize.File, doc *model.ParsedDocument, inv *model.Invoice) error {
	number := inv.Number
	if inv.Series != "" {
		number = inv.Series + "/" + inv.Number
	}

	totals := inv.Totals
	if totals == nil {
		totals = &model.Totals{}
	}

	rows := []row{
		{"DATOS DE LA FACTURA", nil},
		{"", nil},
		{"Número", export.SanitizeCellValue(number)},
		{"Fecha emisión", export.SanitizeCellValue(inv.IssueDate)},
		{"Versión Facturae", export.SanitizeCellValue(doc.SchemaVersion)},
		{"Moneda", export.SanitizeCellValue(doc.FileHeader.CurrencyCode)},
		{"", nil},
		{"EMISOR", nil},
		{"Nombre/Razón social", export.SanitizeCellValue(partyName(doc.Seller))},
		{"NIF/CIF", export.SanitizeCellValue(partyTaxID(doc.Seller))},
		{"Dirección", export.SanitizeCellValue(partyAddress(doc.Seller))},
		{"", nil},
		{"RECEPTOR", nil},
		{"Nombre/Razón social", export.SanitizeCellValue(partyName(doc.Buyer))},
		{"NIF/CIF", export.SanitizeCellValue(partyTaxID(doc.Buyer))},
		{"Dirección", export.SanitizeCellValue(partyAddress(doc.Buyer))},
		{"", nil},
		{"TOTALES", nil},
		{"Base imponible", amount.Float(totals.GrossAmount)},
		{"Total impuestos", amount.Float(totals.TaxOutputs)},
		{"Retenciones", amount.Float(totals.TaxesWithheld)},
		{"Total factura", amount.Float(totals.InvoiceTotal)},
		{"TOTAL A PAGAR", amount.Float(totals.TotalToPay)},
		{"", nil},
		{"INFORMACIÓN DE PAGO", nil},
		{"Forma de pago", export.SanitizeCellValue(paymentMeans(inv.Payment))},
		{"Fecha vencimiento", export.SanitizeCellValue(paymentDueDate(inv.Payment))},
		{"IBAN", export.SanitizeCellValue(paymentAccount(inv.Payment, true))},
		{"BIC", export.SanitizeCellValue(paymentAccount(inv.Payment, false))},
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetGeneral, cell, r.label); err != nil {
			return err
		}
		if r.value != nil {
			valueCell, err := excelize.CoordinatesToCellName(2, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetGeneral, valueCell, r.value); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(sheetGeneral, "A", "A", 22); err != nil {
		return err
	}
	return f.SetColWidth(sheetGeneral, "B", "B", 45)
}

func writeLines(f *excelize.File, inv *model.Invoice) error {
	if _, err := f.NewSheet(sheetLines); err != nil {
		return err
	}

	header := []any{"Nº", "Descripción", "Cantidad", "Precio unitario", "IVA %", "Importe bruto"}
	if err := f.SetSheetRow(sheetLines, "A1", &header); err != nil {
		return err
	}

	for i, line := range inv.Lines {
		gross := line.GrossAmount
		if gross.IsZero() {
			gross = line.TotalAmount
		}
		values := []any{
			i + 1,
			export.SanitizeCellValue(line.Description),
			amount.Float(line.Quantity),
			amount.Float(line.UnitPrice),
			amount.Float(line.TaxRate),
			amount.Float(gross),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetLines, cell, &values); err != nil {
			return err
		}
	}

	widths := []float64{5, 50, 12, 15, 8, 15}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetLines, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func writeTaxes(f *excelize.File, inv *model.Invoice) error {
	if _, err := f.NewSheet(sheetTaxes); err != nil {
		return err
	}

	header := []any{"Tipo impuesto", "Porcentaje", "Base imponible", "Cuota"}
	if err := f.SetSheetRow(sheetTaxes, "A1", &header); err != nil {
		return err
	}

	for i, tax := range inv.Taxes {
		values := []any{
			export.SanitizeCellValue(export.TaxTypeLabel(tax.Type)),
			amount.Float(tax.Rate),
			amount.Float(tax.Base),
			amount.Float(tax.Amount),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetTaxes, cell, &values); err != nil {
			return err
		}
	}

	widths := []float64{20, 12, 15, 15}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetTaxes, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func partyName(p *model.Party) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func partyTaxID(p *model.Party) string {
	if p == nil || p.TaxID == nil {
		return ""
	}
	return *p.TaxID
}

func partyAddress(p *model.Party) string {
	if p == nil {
		return ""
	}
	return export.FormatAddress(p.Address)
}

func paymentMeans(p *model.Payment) string {
	if p == nil || p.PaymentMeans == "" {
		return ""
	}
	return export.PaymentMeansLabel(p.PaymentMeans)
}

func paymentDueDate(p *model.Payment) string {
	if p == nil {
		return ""
	}
	return p.DueDate
}

func paymentAccount(p *model.Payment, iban bool) string {
	if p == nil {
		return ""
	}
	if iban {
		if p.IBAN == nil {
			return ""
		}
		return *p.IBAN
	}
	if p.BIC == nil {
		return ""
	}
	return *p.BIC
}
