package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/facturaview/facturaview/internal/export/excel"
	"github.com/facturaview/facturaview/internal/export/pdf"
)

var (
	exportFormat       string
	exportOutput       string
	exportInvoiceIndex int
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export a Facturae file to PDF or Excel",
	Long: `Export one invoice of a Facturae file to PDF or Excel.

The Excel workbook has three sheets: general data, line items and tax
breakdown. For lote (batch) files, --invoice selects which invoice to
export.

Examples:
  facturaview export factura.xml --format excel
  facturaview export factura.xml --format pdf -o factura.pdf
  facturaview export lote.xml --format pdf --invoice 2`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "excel", "Export format (excel, pdf)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: derived from invoice number)")
	exportCmd.Flags().IntVar(&exportInvoiceIndex, "invoice", 0, "Invoice index for batch files (0-based)")
}

func runExport(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	var data []byte
	var name string

	switch exportFormat {
	case "excel":
		data, err = excel.Export(doc, exportInvoiceIndex)
		name = excel.FileName(doc, exportInvoiceIndex)
	case "pdf":
		data, err = pdf.Export(doc, exportInvoiceIndex)
		name = pdf.FileName(doc, exportInvoiceIndex)
	default:
		return fmt.Errorf("unsupported export format: %s", exportFormat)
	}
	if err != nil {
		return err
	}

	if exportOutput != "" {
		name = exportOutput
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Exported to %s (%d bytes)\n", name, len(data))
	return nil
}
