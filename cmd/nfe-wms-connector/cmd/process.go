package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/nfe-wms-connector/internal/corpem"
	"github.com/rezonia/nfe-wms-connector/internal/nfe"
	"github.com/rezonia/nfe-wms-connector/internal/processor"
	"github.com/rezonia/nfe-wms-connector/internal/wms"
	"github.com/rezonia/nfe-wms-connector/internal/xmltree"
)

var (
	dryRun         bool
	processTimeout time.Duration
)

var processCmd = &cobra.Command{
	Use:   "process <file.xml>",
	Short: "Submit one NF-e XML file to the WMS",
	Long: `Process a single NF-e XML file: extract the invoice, derive the
product-catalog and goods-receipt payloads, and submit both to the
configured WMS endpoint in order.

With --dry-run the generated payloads are printed instead of sent,
useful to inspect the mapping before touching the vendor system.

Examples:
  nfe-wms-connector process nota.xml
  nfe-wms-connector process nota.xml --dry-run
  nfe-wms-connector process nota.xml --endpoint http://staging:37560/scripts/mh.dll/wc`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the payloads without calling the WMS")
	processCmd.Flags().DurationVar(&processTimeout, "timeout", 2*time.Minute, "Submission timeout")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	if dryRun {
		return printPayloads(data, cfg.OperatorTaxID, cfg.ForceInvoiceKey)
	}

	client := wms.NewClient(wms.Config{
		Endpoint: cfg.Endpoint,
		Token:    cfg.Token,
	}, log)

	pipeline := processor.NewPipeline(
		processor.WithLogger(log),
		processor.WithSubmitter(client),
		processor.WithOwnerTaxID(cfg.OperatorTaxID),
		processor.WithForcedInvoiceKey(cfg.ForceInvoiceKey),
	)

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	res := pipeline.Run(ctx, data)

	report := map[string]any{
		"products": res.Products,
	}
	if res.Document != nil {
		report["invoice"] = res.Document
	}
	if res.Invoice != nil {
		report["invoice_receipt"] = res.Invoice
	}
	if res.Failed() {
		report["error"] = string(res.ErrorKind())
		report["message"] = res.ErrorMessage()
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if res.Failed() {
		return fmt.Errorf("integration failed: %w", res.Err)
	}
	return nil
}

// printPayloads runs extraction and mapping only, printing both wire
// payloads the way they would be posted.
func printPayloads(data []byte, operatorTaxID, forcedKey string) error {
	root, err := xmltree.Decode(data)
	if err != nil {
		return err
	}

	var opts []nfe.Option
	if forcedKey != "" {
		opts = append(opts, nfe.WithForcedKey(forcedKey))
	}
	doc, err := nfe.NewExtractor(nil, opts...).Extract(root)
	if err != nil {
		return err
	}

	catalog, err := corpem.MapProducts(doc, operatorTaxID)
	if err != nil {
		return err
	}

	fmt.Println("Product registrations:")
	for _, reg := range catalog.Registrations {
		out, err := json.MarshalIndent(reg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	}

	fmt.Println("Goods receipt:")
	out, err := json.MarshalIndent(corpem.MapInvoice(doc), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	return nil
}
