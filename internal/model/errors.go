package model

import (
	"errors"
	"regexp"
)

// ErrKind is the closed vocabulary of user-facing parse error kinds
type ErrKind string

const (
	ErrXMLMalformed       ErrKind = "XML_MALFORMED"
	ErrNotFacturae        ErrKind = "NOT_FACTURAE"
	ErrNoInvoices         ErrKind = "NO_INVOICES"
	ErrUnsupportedVersion ErrKind = "UNSUPPORTED_VERSION"
	ErrMissingSeller      ErrKind = "MISSING_SELLER"
	ErrMissingBuyer       ErrKind = "MISSING_BUYER"
	ErrMissingTotals      ErrKind = "MISSING_TOTALS"
	ErrUnknown            ErrKind = "UNKNOWN"
)

// Locale selects the friendly-message language
type Locale string

const (
	LocaleES Locale = "es"
	LocaleEN Locale = "en"
)

var friendlyMessagesES = map[ErrKind]string{
	ErrXMLMalformed:       "El archivo no es un XML válido. Verifica que el archivo no esté dañado.",
	ErrNotFacturae:        "El archivo no parece ser una factura electrónica Facturae. Asegúrate de subir un archivo XML de factura electrónica española.",
	ErrNoInvoices:         "El archivo XML no contiene ninguna factura. Verifica que sea un archivo Facturae válido.",
	ErrUnsupportedVersion: "Esta versión de Facturae no está soportada. Solo se admiten las versiones 3.2, 3.2.1 y 3.2.2.",
	ErrMissingSeller:      "La factura no contiene datos del emisor (SellerParty).",
	ErrMissingBuyer:       "La factura no contiene datos del receptor (BuyerParty).",
	ErrMissingTotals:      "La factura no contiene información de totales.",
	ErrUnknown:            "Ha ocurrido un error inesperado al procesar la factura.",
}

var friendlyMessagesEN = map[ErrKind]string{
	ErrXMLMalformed:       "The file is not valid XML. Check that the file is not corrupted.",
	ErrNotFacturae:        "The file does not look like a Facturae electronic invoice. Make sure to upload a Spanish e-invoice XML file.",
	ErrNoInvoices:         "The XML file does not contain any invoice. Check that it is a valid Facturae file.",
	ErrUnsupportedVersion: "This Facturae version is not supported. Only versions 3.2, 3.2.1 and 3.2.2 are accepted.",
	ErrMissingSeller:      "The invoice has no seller data (SellerParty).",
	ErrMissingBuyer:       "The invoice has no buyer data (BuyerParty).",
	ErrMissingTotals:      "The invoice has no totals information.",
	ErrUnknown:            "An unexpected error occurred while processing the invoice.",
}

// FriendlyMessage returns the localized user-facing text for a kind.
// Unknown kinds and unknown locales fall back to the generic Spanish text.
func FriendlyMessage(kind ErrKind, locale Locale) string {
	table := friendlyMessagesES
	if locale == LocaleEN {
		table = friendlyMessagesEN
	}
	if msg, ok := table[kind]; ok {
		return msg
	}
	return table[ErrUnknown]
}

// FacturaeError is the single typed error raised by the parser. The
// technical detail is kept for logging and never included in the friendly
// message shown to end users.
type FacturaeError struct {
	Kind      ErrKind
	Technical string
	Cause     error
}

func (e *FacturaeError) Error() string {
	if e.Technical != "" {
		return string(e.Kind) + ": " + e.Technical
	}
	return string(e.Kind)
}

func (e *FacturaeError) Unwrap() error {
	return e.Cause
}

// Friendly returns the localized user-facing message for this error
func (e *FacturaeError) Friendly(locale Locale) string {
	return FriendlyMessage(e.Kind, locale)
}

// NewFacturaeError creates a classified parse error
func NewFacturaeError(kind ErrKind, technical string, cause error) *FacturaeError {
	return &FacturaeError{Kind: kind, Technical: technical, Cause: cause}
}

// errorPatterns map technical diagnostics from the XML layer (and sloppy
// dereference-style messages from callers) onto error kinds. Order matters:
// the first matching pattern wins.
var errorPatterns = []struct {
	pattern *regexp.Regexp
	kind    ErrKind
}{
	{regexp.MustCompile(`(?i)parsererror`), ErrXMLMalformed},
	{regexp.MustCompile(`(?i)XML syntax error`), ErrXMLMalformed},
	{regexp.MustCompile(`(?i)XML inválido`), ErrXMLMalformed},
	{regexp.MustCompile(`(?i)unexpected EOF`), ErrXMLMalformed},
	{regexp.MustCompile(`(?i)invoice.*undefined|undefined.*invoice`), ErrNoInvoices},
	{regexp.MustCompile(`(?i)invoices\[0\]`), ErrNoInvoices},
	{regexp.MustCompile(`(?i)nil.*invoice|invoice.*nil pointer`), ErrNoInvoices},
	{regexp.MustCompile(`(?i)no.*facturae`), ErrNotFacturae},
	{regexp.MustCompile(`(?i)SchemaVersion`), ErrUnsupportedVersion},
	{regexp.MustCompile(`(?i)seller.*(null|nil)|(null|nil).*seller`), ErrMissingSeller},
	{regexp.MustCompile(`(?i)buyer.*(null|nil)|(null|nil).*buyer`), ErrMissingBuyer},
	{regexp.MustCompile(`(?i)totals.*(null|nil)|(null|nil).*totals`), ErrMissingTotals},
}

// Classify maps an arbitrary error onto an ErrKind. Already-classified
// errors keep their kind; otherwise the message is matched against the
// pattern table, falling back to ErrUnknown.
func Classify(err error) ErrKind {
	if err == nil {
		return ErrUnknown
	}
	var fe *FacturaeError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ClassifyMessage(err.Error())
}

// ClassifyMessage classifies a raw message string
func ClassifyMessage(msg string) ErrKind {
	for _, p := range errorPatterns {
		if p.pattern.MatchString(msg) {
			return p.kind
		}
	}
	return ErrUnknown
}

// AllKinds lists every kind in the vocabulary, for exhaustiveness checks
func AllKinds() []ErrKind {
	return []ErrKind{
		ErrXMLMalformed,
		ErrNotFacturae,
		ErrNoInvoices,
		ErrUnsupportedVersion,
		ErrMissingSeller,
		ErrMissingBuyer,
		ErrMissingTotals,
		ErrUnknown,
	}
}
