// Package export holds the shared presentation helpers used by the PDF and
// Excel exporters: code-to-label tables, address formatting, and the
// sanitization rules for generated cells and file names.
package export

import (
	"regexp"
	"strings"

	"github.com/facturaview/facturaview/internal/model"
)

var paymentMeansLabels = map[string]string{
	"01": "Efectivo",
	"02": "Cheque",
	"04": "Transferencia",
	"05": "Letra aceptada",
	"13": "Pago contra reembolso",
	"14": "Recibo domiciliado",
	"15": "Recibo",
	"16": "Tarjeta crédito",
	"19": "Domiciliación",
}

var taxTypeLabels = map[string]string{
	"01": "IVA",
	"02": "IPSI",
	"03": "IGIC",
	"04": "IRPF",
	"05": "Otro",
}

// PaymentMeansLabel translates a Facturae payment means code, falling back
// to the raw code.
func PaymentMeansLabel(code string) string {
	if label, ok := paymentMeansLabels[code]; ok {
		return label
	}
	return code
}

// TaxTypeLabel translates a Facturae tax type code. Missing codes default
// to IVA, the overwhelmingly common case.
func TaxTypeLabel(code string) string {
	if label, ok := taxTypeLabels[code]; ok {
		return label
	}
	if code == "" {
		return "IVA"
	}
	return code
}

// FormatAddress renders an address on one line, skipping absent parts
func FormatAddress(addr *model.Address) string {
	if addr == nil {
		return ""
	}
	var parts []string
	for _, p := range []*string{addr.Street, addr.PostCode, addr.Town, addr.Province} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, ", ")
}

// SanitizeCellValue prefixes values that a spreadsheet would interpret as
// formulas, preventing formula injection through invoice text fields.
func SanitizeCellValue(value string) string {
	if value == "" {
		return ""
	}
	switch value[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n':
		return "'" + value
	}
	return value
}

var (
	filenameForbidden = regexp.MustCompile(`[<>:"/\\|?*]|[\x00-\x1f\x80-\x9f]`)
	filenameSpaces    = regexp.MustCompile(`\s+`)
)

// Filename derives a safe export file name from an invoice series+number
func Filename(prefix string, inv *model.Invoice, ext string) string {
	name := filenameForbidden.ReplaceAllString(inv.Series+inv.Number, "")
	name = filenameSpaces.ReplaceAllString(name, "-")
	if len(name) > 100 {
		name = name[:100]
	}
	if name == "" {
		name = "sin-numero"
	}
	return prefix + "-" + name + ext
}
