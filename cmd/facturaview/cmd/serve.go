package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/facturaview/facturaview/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for parsing and exporting Facturae files.

Endpoints:
  - POST /api/v1/parse               - Parse a Facturae XML document
  - POST /api/v1/export/excel        - Export to Excel (?invoice=N)
  - POST /api/v1/export/pdf          - Export to PDF (?invoice=N)
  - POST /api/v1/validate-signature  - Proxy to the signature service
  - POST /api/v1/info                - File information
  - GET  /health                     - Health check

Examples:
  facturaview serve
  facturaview serve --address :8080 --signature-api-url https://api.example.com
  facturaview serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 60*time.Second, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:         serverAddr,
		SignatureAPIURL: signatureAPIURL,
		Locale:          locale(),
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		Debug:           serverDebug,
	}

	srv := server.NewServer(config)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", serverAddr)
	if signatureAPIURL != "" {
		fmt.Println("Signature validation proxy enabled")
	} else {
		fmt.Println("Signature validation proxy disabled (no service URL)")
	}

	return srv.Run()
}
