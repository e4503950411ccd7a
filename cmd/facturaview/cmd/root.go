package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/facturaview/facturaview/internal/logger"
	"github.com/facturaview/facturaview/internal/model"
)

var (
	version = "1.0.0"

	// Global flags
	verbose         bool
	outputFormat    string
	localeFlag      string
	signatureAPIURL string
	logFormat       string
)

var rootCmd = &cobra.Command{
	Use:   "facturaview",
	Short: "View, export and verify Facturae e-invoices",
	Long: `FacturaView is a CLI tool for working with Facturae (Spanish
electronic invoice) XML documents.

Supports:
  - Facturae versions 3.2, 3.2.1 and 3.2.2, including lote (batch) files
  - Export to PDF and Excel
  - XAdES signature validation through an external service
  - Optional strict validation against the official XSD schema

Examples:
  # View an invoice
  facturaview view factura.xml

  # View the second invoice of a batch file
  facturaview view lote.xml --invoice 1

  # Export to Excel
  facturaview export factura.xml --format excel -o factura.xlsx

  # Verify the digital signature
  facturaview verify factura.xsig --signature-api-url https://api.example.com`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "es", "Language for user-facing messages (es, en)")
	rootCmd.PersistentFlags().StringVar(&signatureAPIURL, "signature-api-url", "", "Base URL of the signature validation service (env: SIGNATURE_API_URL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (console, json)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env is optional; flags and real env vars win
	_ = godotenv.Load()

	if signatureAPIURL == "" {
		signatureAPIURL = os.Getenv("SIGNATURE_API_URL")
	}
	if env := os.Getenv("FACTURAVIEW_LOCALE"); localeFlag == "es" && env != "" {
		localeFlag = env
	}

	logConfig := logger.DefaultConfig()
	logConfig.Format = logFormat
	if verbose {
		logConfig.Level = "debug"
	}
	if err := logger.Setup(logConfig); err != nil {
		fmt.Fprintf(os.Stderr, "logger setup: %v\n", err)
	}
}

func locale() model.Locale {
	if localeFlag == "en" {
		return model.LocaleEN
	}
	return model.LocaleES
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
