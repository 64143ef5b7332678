// Command ledgerctl reads and maintains the business-state document
// directly through the configured store, without the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"bankai/backend/internal/automation"
	"bankai/backend/internal/config"
	"bankai/backend/internal/domain"
	"bankai/backend/internal/service"
	"bankai/backend/internal/store"
	"bankai/backend/internal/store/backend"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	var configPath string
	flagSet := pflag.NewFlagSet("ledgerctl", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to a YAML config file (env vars override it)")
	flagSet.SetInterspersed(false)
	flagSet.Usage = func() { printHelp(flagSet) }

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	rest := flagSet.Args()
	if len(rest) == 0 {
		printHelp(flagSet)
		return fmt.Errorf("command required")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	blobs, closeStore, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	return runCommand(ctx, blobs, rest[0], rest[1:], stdout)
}

func runCommand(ctx context.Context, blobs store.BlobStore, command string, args []string, stdout io.Writer) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	svc := service.New(blobs, automation.NewEngine())
	ctx = service.WithActor(ctx, domain.Actor{Name: "ledgerctl", Role: domain.RoleOwner})

	switch command {
	case "dashboard":
		board, err := svc.Dashboard(ctx)
		if err != nil {
			return err
		}
		return printJSON(stdout, board)
	case "low-stock":
		products, err := svc.LowStock(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SKU\tNAME\tQTY\tMIN")
		for _, p := range products {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", p.SKU, p.Name, p.Qty, p.Min)
		}
		return tw.Flush()
	case "sales-by-product":
		rows, err := svc.SalesByProduct(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SKU\tQTY")
		for _, row := range rows {
			fmt.Fprintf(tw, "%s\t%d\n", row.SKU, row.Qty)
		}
		return tw.Flush()
	case "auto-settle":
		result, err := svc.RunAutomation(ctx)
		if err != nil {
			return err
		}
		return printJSON(stdout, result)
	case "export-csv":
		payload, err := svc.ExportProductsCSV(ctx)
		if err != nil {
			return err
		}
		_, err = stdout.Write(payload)
		return err
	case "export-json":
		payload, err := svc.ExportDocumentJSON(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "%s\n", payload)
		return err
	case "seed":
		seeded, err := svc.SeedDemo(ctx)
		if err != nil {
			return err
		}
		if !seeded {
			fmt.Fprintln(stdout, "document already exists; nothing seeded")
			return nil
		}
		fmt.Fprintln(stdout, "demo data seeded")
		return nil
	case "reset":
		if err := svc.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "business state and preferences removed")
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `ledgerctl operates on the ledger store selected by the configuration
(DATABASE_URL, REDIS_ADDR, DATA_DIR, or in-memory).

Usage:
  ledgerctl [flags] <command>

Commands:
  dashboard          print balances, pending totals and alerts
  low-stock          list products at or below their minimum
  sales-by-product   list quantities sold per sku
  auto-settle        evaluate the automation rules once
  export-csv         write the product list as CSV
  export-json        write the full document as indented JSON
  seed               write demo data if no document exists
  reset              remove the business state and preferences

Flags:
`)
	flagSet.PrintDefaults()
}
