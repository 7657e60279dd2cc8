package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/nfe-wms-connector/internal/config"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	wmsEndpoint  string
	wmsToken     string
	operatorCNPJ string
	forceNFeKey  string
)

var rootCmd = &cobra.Command{
	Use:   "nfe-wms-connector",
	Short: "Forward NF-e XML documents to the Corpem WMS",
	Long: `NF-e WMS Connector ingests Brazilian NF-e XML invoices and forwards
them to the Corpem warehouse-management system as two ordered requests:
a product-catalog upsert per line item, then the goods-receipt entry.

Examples:
  # Submit one invoice file
  nfe-wms-connector process nota.xml

  # Inspect the generated payloads without calling the WMS
  nfe-wms-connector process nota.xml --dry-run

  # Start the HTTP upload API
  nfe-wms-connector serve --address :8080`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&wmsEndpoint, "endpoint", "", "WMS endpoint URL (env: CORPEM_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&wmsToken, "token", "", "WMS authentication token (env: TOKEN_CP)")
	rootCmd.PersistentFlags().StringVar(&operatorCNPJ, "operator-cnpj", "", "WMS operator CNPJ owning the catalog (env: CNPJ_CLIENTE_WMS_OPERADOR)")
	rootCmd.PersistentFlags().StringVar(&forceNFeKey, "force-key", "", "Override the resolved NF-e access key, debugging only (env: FORCE_NFE_KEY)")
}

// loadConfig merges the environment-backed defaults with any flags the
// user set explicitly.
func loadConfig() config.Config {
	cfg := config.Load()
	if wmsEndpoint != "" {
		cfg.Endpoint = wmsEndpoint
	}
	if wmsToken != "" {
		cfg.Token = wmsToken
	}
	if operatorCNPJ != "" {
		cfg.OperatorTaxID = operatorCNPJ
	}
	if forceNFeKey != "" {
		cfg.ForceInvoiceKey = forceNFeKey
	}
	return cfg
}

// newLogger builds the process logger; verbose switches to the
// human-readable development encoder.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
