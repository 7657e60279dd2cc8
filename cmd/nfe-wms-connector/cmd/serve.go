package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rezonia/nfe-wms-connector/internal/server"
)

var (
	serverAddr  string
	serverDebug bool
	uploadDir   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP upload API",
	Long: `Start an HTTP API accepting NF-e XML uploads.

Endpoints:
  POST /api/v1/integrations       - Upload an NF-e XML (multipart field "xml")
  POST /api/v1/integrations?async=1 - Same, but returns 202 with a job id
  GET  /api/v1/integrations/:id   - Poll an asynchronous job
  GET  /health                    - Health check

Examples:
  # Start on the default port
  nfe-wms-connector serve

  # Custom address against a staging WMS
  nfe-wms-connector serve --address :3000 --endpoint http://staging:37560/scripts/mh.dll/wc`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (default from PORT env or :8080)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().StringVar(&uploadDir, "upload-dir", "", "Directory for transient uploads (default: system temp)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serverAddr != "" {
		cfg.Addr = serverAddr
	}
	if uploadDir != "" {
		cfg.UploadDir = uploadDir
	}
	cfg.Debug = serverDebug

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	srv := server.NewServer(cfg, log)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", cfg.Addr)
	fmt.Printf("WMS endpoint: %s\n", cfg.Endpoint)
	if cfg.ForceInvoiceKey != "" {
		fmt.Println("WARNING: forced NF-e access key override is active")
	}

	return srv.Run()
}
