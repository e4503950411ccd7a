package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/facturaview/facturaview/internal/input"
	"github.com/facturaview/facturaview/internal/signature"
)

var verifyTimeout time.Duration

var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Validate the XAdES signature through the external service",
	Long: `Send a signed Facturae file to the configured signature validation
service and print its verdict.

Validation is delegated entirely to the service; when it cannot be
reached, the signature status is reported as unverifiable instead of
failing.

Examples:
  facturaview verify factura.xsig
  facturaview verify factura.xsig --signature-api-url https://api.example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 15*time.Second, "Request timeout")
}

func runVerify(cmd *cobra.Command, args []string) error {
	if signatureAPIURL == "" {
		return fmt.Errorf("no signature validation service configured (set --signature-api-url or SIGNATURE_API_URL)")
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := input.ValidateFile(path, info.Size()); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	client := signature.NewClient(signatureAPIURL, signature.WithTimeout(verifyTimeout))
	printVerbose("Validating signature of %s against %s\n", path, signatureAPIURL)

	result := client.Validate(context.Background(), data)

	if outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	switch {
	case result.Valid == nil:
		fmt.Println("Firma: no verificable")
	case *result.Valid:
		fmt.Println("Firma: válida")
	default:
		fmt.Println("Firma: NO válida")
	}
	if result.Signer != nil {
		fmt.Printf("Firmante: %s (%s)\n", result.Signer.Name, result.Signer.TaxID)
	}
	if result.Certificate != nil {
		fmt.Printf("Certificado emitido por: %s\n", result.Certificate.Issuer)
	}
	for _, e := range result.Errors {
		fmt.Printf("Error: %s\n", e)
	}
	for _, w := range result.Warnings {
		fmt.Printf("Aviso: %s\n", w)
	}
	return nil
}
