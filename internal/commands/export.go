package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"retail-ledger/internal/export"
	"retail-ledger/internal/output"

	"github.com/spf13/cobra"
)

var (
	// Export flags
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sales or inventory to CSV or XLSX",
	Long: `Export sales or inventory to CSV or XLSX.

Examples:
  retail-ledger export inventory --format xlsx
  retail-ledger export sales --from 2024-03-01 --out march.csv`,
}

var exportSalesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Export sales",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := saleFilterFromFlags()
		if err != nil {
			return err
		}
		return runExport(cmd, "sales", func(l *ledger, w io.Writer, format export.Format) error {
			sales, err := l.store.ListSales(cmd.Context(), f)
			if err != nil {
				return err
			}
			return export.Sales(w, format, sales)
		})
	},
}

var exportInventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Export the product catalog with stock levels",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, "inventory", func(l *ledger, w io.Writer, format export.Format) error {
			products, err := l.store.ListProducts(cmd.Context(), nil)
			if err != nil {
				return err
			}
			return export.Inventory(w, format, products)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{exportSalesCmd, exportInventoryCmd} {
		c.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format: csv or xlsx")
		c.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default <kind>_<timestamp>.<format>)")
	}
	exportSalesCmd.Flags().StringVar(&reportCategory, "category", "", "Category id")
	exportSalesCmd.Flags().StringVar(&reportCustomer, "customer", "", "Customer id")
	exportSalesCmd.Flags().StringVar(&reportFrom, "from", "", "First day (YYYY-MM-DD)")
	exportSalesCmd.Flags().StringVar(&reportTo, "to", "", "Last day (YYYY-MM-DD)")

	exportCmd.AddCommand(exportSalesCmd, exportInventoryCmd)
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, kind string, write func(l *ledger, w io.Writer, format export.Format) error) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	path := exportOut
	if path == "" {
		path = fmt.Sprintf("%s_%s.%s", kind, time.Now().Format("20060102_150405"), format)
	}

	return withLedger(func(l *ledger) error {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		bw := bufio.NewWriter(f)
		if err := write(l, bw, format); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return err
		}
		if err := bw.Flush(); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		output.Success(cmd.OutOrStdout(), "Exported %s to %s", kind, path)
		return nil
	})
}
