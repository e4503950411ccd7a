package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/facturaview/facturaview/internal/amount"
	"github.com/facturaview/facturaview/internal/export"
	"github.com/facturaview/facturaview/internal/input"
	"github.com/facturaview/facturaview/internal/model"
	"github.com/facturaview/facturaview/internal/parser/facturae"
)

var viewInvoiceIndex int

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Parse a Facturae file and print its contents",
	Long: `Parse a Facturae XML file and print the extracted invoice data.

For lote (batch) files, --invoice selects which invoice to show in table
output; JSON output always contains the whole document.

Examples:
  facturaview view factura.xml
  facturaview view factura.xml -f table
  facturaview view lote.xml --invoice 2 -f table`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().IntVar(&viewInvoiceIndex, "invoice", 0, "Invoice index for batch files (0-based)")
}

// loadDocument validates, reads and parses one file argument
func loadDocument(path string) (*model.ParsedDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if err := input.ValidateFile(path, info.Size()); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	printVerbose("Parsing %s (%d bytes)\n", path, len(data))
	doc, err := facturae.Parse(data)
	if err != nil {
		kind := model.Classify(err)
		printVerbose("parse failed: %v\n", err)
		return nil, fmt.Errorf("%s", model.FriendlyMessage(kind, locale()))
	}
	return doc, nil
}

func runView(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	if outputFormat == "table" {
		return printTable(doc, viewInvoiceIndex)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func printTable(doc *model.ParsedDocument, index int) error {
	sel := facturae.NewSelection(doc)
	sel.Select(index)
	inv := sel.Current()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if facturae.IsBatch(doc) {
		fmt.Fprintf(w, "Lote\tfactura %d de %d\n", sel.Index()+1, sel.Count())
		if b := doc.FileHeader.Batch; b != nil {
			fmt.Fprintf(w, "Identificador\t%s\n", b.Identifier)
			fmt.Fprintf(w, "Importe total lote\t%s\n", b.TotalAmount.StringFixed(2))
		} else {
			// Batch block absent in the header: sum the invoice totals
			totals := make([]decimal.Decimal, 0, len(doc.Invoices))
			for _, inv := range doc.Invoices {
				if inv.Totals != nil {
					totals = append(totals, inv.Totals.InvoiceTotal)
				}
			}
			fmt.Fprintf(w, "Importe total lote\t%s\n", amount.Sum(totals).StringFixed(2))
		}
		fmt.Fprintln(w)
	}

	number := inv.Number
	if inv.Series != "" {
		number = inv.Series + "/" + inv.Number
	}
	fmt.Fprintf(w, "Factura\t%s\n", number)
	fmt.Fprintf(w, "Fecha\t%s\n", inv.IssueDate)
	fmt.Fprintf(w, "Versión\t%s\n", doc.SchemaVersion)
	fmt.Fprintf(w, "Firmada\t%t\n", doc.IsSigned)
	fmt.Fprintln(w)

	printParty(w, "Emisor", doc.Seller)
	printParty(w, "Receptor", doc.Buyer)

	fmt.Fprintln(w, "Líneas:")
	for i, line := range inv.Lines {
		fmt.Fprintf(w, "  %d\t%s\t%s x %s\t%s%%\t%s\n",
			i+1, line.Description,
			line.Quantity.String(), line.UnitPrice.StringFixed(2),
			line.TaxRate.String(), line.GrossAmount.StringFixed(2))
	}
	fmt.Fprintln(w)

	if t := inv.Totals; t != nil {
		fmt.Fprintf(w, "Base imponible\t%s\n", t.GrossAmount.StringFixed(2))
		fmt.Fprintf(w, "Impuestos\t%s\n", t.TaxOutputs.StringFixed(2))
		if !t.TaxesWithheld.IsZero() {
			fmt.Fprintf(w, "Retenciones\t%s\n", t.TaxesWithheld.StringFixed(2))
		}
		fmt.Fprintf(w, "Total\t%s\n", t.InvoiceTotal.StringFixed(2))
		fmt.Fprintf(w, "A pagar\t%s\n", t.TotalToPay.StringFixed(2))
	}

	if p := inv.Payment; p != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Forma de pago\t%s\n", export.PaymentMeansLabel(p.PaymentMeans))
		fmt.Fprintf(w, "Vencimiento\t%s\n", p.DueDate)
		if p.IBAN != nil {
			fmt.Fprintf(w, "IBAN\t%s\n", *p.IBAN)
		}
	}
	return nil
}

func printParty(w *tabwriter.Writer, label string, p *model.Party) {
	if p == nil {
		fmt.Fprintf(w, "%s\tsin datos\n\n", label)
		return
	}
	fmt.Fprintf(w, "%s\t%s\n", label, p.Name)
	if p.TaxID != nil {
		fmt.Fprintf(w, "NIF/CIF\t%s\n", *p.TaxID)
	}
	if addr := export.FormatAddress(p.Address); addr != "" {
		fmt.Fprintf(w, "Dirección\t%s\n", addr)
	}
	fmt.Fprintln(w)
}
