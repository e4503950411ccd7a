package facturae_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaview/facturaview/internal/model"
	"github.com/facturaview/facturaview/internal/parser/facturae"
)

func TestParse_Simple322(t *testing.T) {
	doc, err := facturae.Parse(readTestFile(t, "simple-322.xml"))
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "3.2.2", doc.SchemaVersion)
	assert.Equal(t, "I", doc.FileHeader.Modality)
	assert.Equal(t, "EUR", doc.FileHeader.CurrencyCode)
	assert.Nil(t, doc.FileHeader.Batch)
	assert.False(t, doc.IsSigned)

	require.NotNil(t, doc.Seller)
	assert.Equal(t, model.PartyTypeLegal, doc.Seller.Type)
	assert.Equal(t, "Empresa Ejemplo S.L.", doc.Seller.Name)
	require.NotNil(t, doc.Seller.TaxID)
	assert.Equal(t, "A12345678", *doc.Seller.TaxID)

	require.NotNil(t, doc.Seller.Address)
	require.NotNil(t, doc.Seller.Address.Street)
	assert.Equal(t, "Calle Mayor 123", *doc.Seller.Address.Street)
	require.NotNil(t, doc.Seller.Address.PostCode)
	assert.Equal(t, "28001", *doc.Seller.Address.PostCode)
	require.NotNil(t, doc.Seller.Address.Town)
	assert.Equal(t, "Madrid", *doc.Seller.Address.Town)
	require.NotNil(t, doc.Seller.Address.Province)
	assert.Equal(t, "Madrid", *doc.Seller.Address.Province)
	assert.Equal(t, "ESP", doc.Seller.Address.Country)

	require.NotNil(t, doc.Buyer)
	assert.Equal(t, "Cliente Ejemplo S.A.", doc.Buyer.Name)
	require.NotNil(t, doc.Buyer.TaxID)
	assert.Equal(t, "B87654321", *doc.Buyer.TaxID)

	require.Len(t, doc.Invoices, 1)
	inv := doc.Invoices[0]
	assert.Equal(t, "2024/001", inv.Number)
	assert.Equal(t, "A", inv.Series)
	assert.Equal(t, "2024-01-15", inv.IssueDate)
	assert.Equal(t, "FC", inv.InvoiceType)
	assert.Equal(t, "OO", inv.InvoiceClass)

	require.Len(t, inv.Lines, 1)
	line := inv.Lines[0]
	assert.Equal(t, "Servicio de consultoría", line.Description)
	assertDecimal(t, "1", line.Quantity)
	assertDecimal(t, "100", line.UnitPrice)
	assertDecimal(t, "100", line.GrossAmount)
	assertDecimal(t, "21", line.TaxRate)

	require.Len(t, inv.Taxes, 1)
	assertDecimal(t, "21", inv.Taxes[0].Rate)
	assertDecimal(t, "100", inv.Taxes[0].Base)
	assertDecimal(t, "21", inv.Taxes[0].Amount)

	require.NotNil(t, inv.Totals)
	assertDecimal(t, "100", inv.Totals.GrossAmount)
	assertDecimal(t, "21", inv.Totals.TaxOutputs)
	assertDecimal(t, "121", inv.Totals.InvoiceTotal)
	assertDecimal(t, "121", inv.Totals.TotalToPay)

	require.NotNil(t, inv.Payment)
	assert.Equal(t, "2024-02-15", inv.Payment.DueDate)
	assertDecimal(t, "121", inv.Payment.Amount)
	assert.Equal(t, "04", inv.Payment.PaymentMeans)
	require.NotNil(t, inv.Payment.IBAN)
	assert.Equal(t, "ES9121000418450200051332", *inv.Payment.IBAN)
	require.NotNil(t, inv.Payment.BIC)
	assert.Equal(t, "CAIXESBBXXX", *inv.Payment.BIC)
}

func TestParse_VersionDetection(t *testing.T) {
	tests := []struct {
		file    string
		version string
		seller  string
		total   string
	}{
		{"simple-32.xml", "3.2", "Floristería El Jardín S.L.", "63.13"},
		{"simple-321.xml", "3.2.1", "Suministros Industriales del Norte S.L.", "484"},
		{"simple-322.xml", "3.2.2", "Empresa Ejemplo S.L.", "121"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			doc, err := facturae.Parse(readTestFile(t, tt.file))
			require.NoError(t, err)
			assert.Equal(t, tt.version, doc.SchemaVersion)
			assert.Equal(t, tt.seller, doc.Seller.Name)
			assertDecimal(t, tt.total, doc.Invoices[0].Totals.InvoiceTotal)
		})
	}
}

func TestParse_IndividualSellerWithRetention(t *testing.T) {
	doc, err := facturae.Parse(readTestFile(t, "with-retention.xml"))
	require.NoError(t, err)

	require.NotNil(t, doc.Seller)
	assert.Equal(t, model.PartyTypeIndividual, doc.Seller.Type)
	assert.Equal(t, "María García López", doc.Seller.Name)
	require.NotNil(t, doc.Seller.TaxID)
	assert.Equal(t, "12345678Z", *doc.Seller.TaxID)
	assert.False(t, doc.Seller.IsLegalEntity())

	totals := doc.Invoices[0].Totals
	require.NotNil(t, totals)
	assertDecimal(t, "1000", totals.GrossAmount)
	assertDecimal(t, "210", totals.TaxOutputs)
	assertDecimal(t, "150", totals.TaxesWithheld)
	assertDecimal(t, "1060", totals.InvoiceTotal)
}

func TestParse_CorrectiveInvoiceNegativeAmounts(t *testing.T) {
	doc, err := facturae.Parse(readTestFile(t, "rectificativa.xml"))
	require.NoError(t, err)

	inv := doc.Invoices[0]
	assert.Equal(t, "OR", inv.InvoiceClass)
	assertDecimal(t, "-50", inv.Totals.GrossAmount)
	assertDecimal(t, "-60.5", inv.Totals.InvoiceTotal)
	assertDecimal(t, "-60.5", inv.Totals.TotalToPay)
	assert.True(t, inv.Totals.InvoiceTotal.IsNegative())

	require.Len(t, inv.Taxes, 1)
	assertDecimal(t, "-50", inv.Taxes[0].Base)
	assertDecimal(t, "-10.5", inv.Taxes[0].Amount)
}

func TestParse_Batch(t *testing.T) {
	doc, err := facturae.Parse(readTestFile(t, "batch-322.xml"))
	require.NoError(t, err)

	assert.Equal(t, "L", doc.FileHeader.Modality)
	require.NotNil(t, doc.FileHeader.Batch)
	assert.Equal(t, "A12345678-LOTE-2024-001", doc.FileHeader.Batch.Identifier)
	assert.Equal(t, 3, doc.FileHeader.Batch.InvoicesCount)
	assertDecimal(t, "665.50", doc.FileHeader.Batch.TotalAmount)

	assert.Equal(t, "Empresa Lote S.L.", doc.Seller.Name)
	assert.Equal(t, "Cliente Lote S.A.", doc.Buyer.Name)

	require.Len(t, doc.Invoices, 3)
	assert.Equal(t, "2024/001", doc.Invoices[0].Number)
	assert.Equal(t, "L", doc.Invoices[0].Series)
	assertDecimal(t, "121", doc.Invoices[0].Totals.TotalToPay)
	assertDecimal(t, "242", doc.Invoices[1].Totals.TotalToPay)
	assertDecimal(t, "302.50", doc.Invoices[2].Totals.TotalToPay)
	assertDecimal(t, "10", doc.Invoices[2].Lines[0].TaxRate)
}

func TestParse_ComplexInvoice(t *testing.T) {
	doc, err := facturae.Parse(readTestFile(t, "complex-322.xml"))
	require.NoError(t, err)

	inv := doc.Invoices[0]
	require.Len(t, inv.Lines, 4)
	assert.Equal(t, "Desarrollo aplicación web personalizada", inv.Lines[0].Description)

	rates := map[string]bool{}
	for _, tax := range inv.Taxes {
		rates[tax.Rate.String()] = true
	}
	assert.True(t, rates["21"])
	assert.True(t, rates["10"])
	assert.True(t, rates["4"])

	assertDecimal(t, "1700", inv.Totals.GrossAmount)
	assertDecimal(t, "100", inv.Totals.GeneralDiscounts)
	assertDecimal(t, "1600", inv.Totals.GrossAmountBeforeTaxes)

	// Buyer uses an overseas address
	require.NotNil(t, doc.Buyer.Address)
	assert.Equal(t, "PRT", doc.Buyer.Address.Country)
	assert.Nil(t, doc.Buyer.Address.PostCode)
}

// Invoice-level taxes come only from the TaxesOutputs block that is a
// direct child of the invoice, never from the copies nested inside lines.
func TestParse_LineTaxesNotMergedIntoInvoiceTaxes(t *testing.T) {
	doc, err := facturae.Parse(readTestFile(t, "simple-322.xml"))
	require.NoError(t, err)

	inv := doc.Invoices[0]
	assert.Len(t, inv.Taxes, 1)
	assert.Len(t, inv.Lines, 1)
	assertDecimal(t, "21", inv.Lines[0].TaxRate)
}

func TestParse_SignedDocument(t *testing.T) {
	doc, err := facturae.Parse(readTestFile(t, "signed-322.xml"))
	require.NoError(t, err)
	assert.True(t, doc.IsSigned)
	assert.Equal(t, "2024/005", doc.Invoices[0].Number)
}

func TestParse_Idempotent(t *testing.T) {
	content := readTestFile(t, "batch-322.xml")

	first, err := facturae.Parse(content)
	require.NoError(t, err)
	second, err := facturae.Parse(content)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParse_MalformedXML(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unclosed tag", `<invalid><not-closed>`},
		{"empty input", ``},
		{"truncated document", `<?xml version="1.0"?><fe:Facturae><FileHeader>`},
		{"not xml at all", `this is not xml`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := facturae.Parse([]byte(tt.content))
			assert.Nil(t, doc)
			requireKind(t, err, model.ErrXMLMalformed)
		})
	}
}

func TestParse_NotFacturae(t *testing.T) {
	doc, err := facturae.Parse([]byte(`<order><item>widget</item></order>`))
	assert.Nil(t, doc)
	requireKind(t, err, model.ErrNotFacturae)
}

func TestParse_UnsupportedVersion(t *testing.T) {
	content := `<fe:Facturae xmlns:fe="http://www.facturae.es/Facturae/2007/v3.1/Facturae">
		<FileHeader><SchemaVersion>3.1</SchemaVersion><Modality>I</Modality></FileHeader>
	</fe:Facturae>`

	doc, err := facturae.Parse([]byte(content))
	assert.Nil(t, doc)
	requireKind(t, err, model.ErrUnsupportedVersion)

	var fe *model.FacturaeError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Technical, "3.1")
}

func TestParse_NoInvoices(t *testing.T) {
	content := `<fe:Facturae xmlns:fe="http://www.facturae.gob.es/formato/Versiones/Facturaev3_2_2.xml">
		<FileHeader><SchemaVersion>3.2.2</SchemaVersion><Modality>I</Modality></FileHeader>
		<Invoices></Invoices>
	</fe:Facturae>`

	doc, err := facturae.Parse([]byte(content))
	assert.Nil(t, doc)
	requireKind(t, err, model.ErrNoInvoices)
}

func TestParse_MissingTotals(t *testing.T) {
	content := `<fe:Facturae xmlns:fe="http://www.facturae.gob.es/formato/Versiones/Facturaev3_2_2.xml">
		<FileHeader><SchemaVersion>3.2.2</SchemaVersion><Modality>I</Modality></FileHeader>
		<Invoices>
			<Invoice>
				<InvoiceHeader><InvoiceNumber>001</InvoiceNumber></InvoiceHeader>
			</Invoice>
		</Invoices>
	</fe:Facturae>`

	doc, err := facturae.Parse([]byte(content))
	assert.Nil(t, doc)
	requireKind(t, err, model.ErrMissingTotals)
}

func TestParse_MissingVersionStillParses(t *testing.T) {
	content := `<fe:Facturae xmlns:fe="http://www.facturae.gob.es/formato/Versiones/Facturaev3_2_2.xml">
		<FileHeader><Modality>I</Modality></FileHeader>
		<Invoices>
			<Invoice>
				<InvoiceHeader><InvoiceNumber>001</InvoiceNumber></InvoiceHeader>
				<InvoiceTotals><InvoiceTotal>10.00</InvoiceTotal></InvoiceTotals>
			</Invoice>
		</Invoices>
	</fe:Facturae>`

	doc, err := facturae.Parse([]byte(content))
	require.NoError(t, err)
	assert.Empty(t, doc.SchemaVersion)
	assertDecimal(t, "10", doc.Invoices[0].Totals.InvoiceTotal)
}

func TestParse_DefaultCurrencyAndCountry(t *testing.T) {
	content := `<fe:Facturae xmlns:fe="http://www.facturae.gob.es/formato/Versiones/Facturaev3_2_2.xml">
		<FileHeader><SchemaVersion>3.2.2</SchemaVersion><Modality>I</Modality></FileHeader>
		<Parties>
			<SellerParty>
				<LegalEntity>
					<CorporateName>Sin Divisa S.L.</CorporateName>
					<AddressInSpain><Address>Calle Uno 1</Address></AddressInSpain>
				</LegalEntity>
			</SellerParty>
		</Parties>
		<Invoices>
			<Invoice>
				<InvoiceTotals><InvoiceTotal>5.00</InvoiceTotal></InvoiceTotals>
			</Invoice>
		</Invoices>
	</fe:Facturae>`

	doc, err := facturae.Parse([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, "EUR", doc.FileHeader.CurrencyCode)
	require.NotNil(t, doc.Seller.Address)
	assert.Equal(t, "ESP", doc.Seller.Address.Country)
	assert.Nil(t, doc.Seller.TaxID)
	assert.Nil(t, doc.Buyer)
}

func TestParse_MalformedAmountsDegradeToZero(t *testing.T) {
	content := `<fe:Facturae xmlns:fe="http://www.facturae.gob.es/formato/Versiones/Facturaev3_2_2.xml">
		<FileHeader><SchemaVersion>3.2.2</SchemaVersion><Modality>I</Modality></FileHeader>
		<Invoices>
			<Invoice>
				<InvoiceTotals>
					<TotalGrossAmount>abc</TotalGrossAmount>
					<InvoiceTotal></InvoiceTotal>
				</InvoiceTotals>
				<Items>
					<InvoiceLine>
						<ItemDescription>Algo</ItemDescription>
						<Quantity>not-a-number</Quantity>
					</InvoiceLine>
				</Items>
			</Invoice>
		</Invoices>
	</fe:Facturae>`

	doc, err := facturae.Parse([]byte(content))
	require.NoError(t, err)

	inv := doc.Invoices[0]
	assert.True(t, inv.Totals.GrossAmount.IsZero())
	assert.True(t, inv.Totals.InvoiceTotal.IsZero())
	require.Len(t, inv.Lines, 1)
	assert.True(t, inv.Lines[0].Quantity.IsZero())
	assert.True(t, inv.Lines[0].TaxRate.IsZero())
}

func TestParse_FriendlyMessagesNeverLeakInternals(t *testing.T) {
	inputs := [][]byte{
		[]byte(`<invalid><not-closed>`),
		[]byte(``),
		[]byte(`<order/>`),
	}

	for _, input := range inputs {
		_, err := facturae.Parse(input)
		require.Error(t, err)

		var fe *model.FacturaeError
		require.ErrorAs(t, err, &fe)
		for _, locale := range []model.Locale{model.LocaleES, model.LocaleEN} {
			msg := fe.Friendly(locale)
			assert.NotEmpty(t, msg)
			assert.NotContains(t, msg, "undefined")
			assert.NotContains(t, msg, "null")
			assert.NotContains(t, msg, "TypeError")
		}
	}
}

// Helper functions

func readTestFile(t *testing.T, filename string) []byte {
	t.Helper()
	path := filepath.Join("testdata", filename)
	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read test file: %s", filename)
	return content
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	want, err := decimal.NewFromString(expected)
	require.NoError(t, err)
	assert.True(t, want.Equal(actual), "expected %s, got %s", expected, actual)
}

func requireKind(t *testing.T, err error, kind model.ErrKind) {
	t.Helper()
	require.Error(t, err)
	var fe *model.FacturaeError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, kind, fe.Kind)
}
