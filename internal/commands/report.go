package commands

import (
	"retail-ledger/internal/output"
	"retail-ledger/internal/store"
	"retail-ledger/internal/util"

	"github.com/spf13/cobra"
)

var (
	// Report flags
	reportCategory string
	reportCustomer string
	reportFrom     string
	reportTo       string
)

// reportCmd groups the profit reports
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Profit and sales reports",
	Long: `Profit and sales reports.

Subcommands:
  profit   - Total profit, optionally for one category
  summary  - Sale count, revenue, profit and margin`,
}

var reportProfitCmd = &cobra.Command{
	Use:   "profit",
	Short: "Show total profit",
	Long: `Show the profit frozen on every recorded sale.

Examples:
  retail-ledger report profit
  retail-ledger report profit --category 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryID, err := util.ParseOptionalID(reportCategory)
		if err != nil {
			return err
		}
		return withLedger(func(l *ledger) error {
			w := cmd.OutOrStdout()
			if categoryID == nil {
				profit, err := l.store.TotalProfit(cmd.Context())
				if err != nil {
					return err
				}
				output.Info(w, "Total profit: %s", money(l.cfg.Shop.Currency, profit))
				return nil
			}

			cat, err := l.store.GetCategory(cmd.Context(), *categoryID)
			if err != nil {
				return err
			}
			profit, err := l.store.TotalProfitByCategory(cmd.Context(), cat.ID)
			if err != nil {
				return err
			}
			output.Info(w, "Profit for %s: %s", cat.Name, money(l.cfg.Shop.Currency, profit))
			return nil
		})
	},
}

var reportSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize sales",
	Long: `Summarize sales, optionally within a date range (YYYY-MM-DD, inclusive),
for one category or for one customer.

Examples:
  retail-ledger report summary
  retail-ledger report summary --from 2024-03-01 --to 2024-03-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := saleFilterFromFlags()
		if err != nil {
			return err
		}
		return withLedger(func(l *ledger) error {
			sum, err := l.store.SalesSummary(cmd.Context(), f)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			cur := l.cfg.Shop.Currency
			output.Section(w, "Sales summary")
			output.Info(w, "Sales:   %d", sum.Count)
			output.Info(w, "Revenue: %s", money(cur, sum.Revenue))
			output.Info(w, "Profit:  %s", money(cur, sum.Profit))
			output.Info(w, "Margin:  %s%%", sum.Margin.StringFixed(2))
			return nil
		})
	},
}

func init() {
	reportProfitCmd.Flags().StringVar(&reportCategory, "category", "", "Category id")

	reportSummaryCmd.Flags().StringVar(&reportCategory, "category", "", "Category id")
	reportSummaryCmd.Flags().StringVar(&reportCustomer, "customer", "", "Customer id")
	reportSummaryCmd.Flags().StringVar(&reportFrom, "from", "", "First day (YYYY-MM-DD)")
	reportSummaryCmd.Flags().StringVar(&reportTo, "to", "", "Last day (YYYY-MM-DD)")

	reportCmd.AddCommand(reportProfitCmd, reportSummaryCmd)
	rootCmd.AddCommand(reportCmd)
}

// saleFilterFromFlags is shared with "export sales".
func saleFilterFromFlags() (store.SaleFilter, error) {
	var (
		f   store.SaleFilter
		err error
	)
	if f.CategoryID, err = util.ParseOptionalID(reportCategory); err != nil {
		return f, err
	}
	if f.CustomerID, err = util.ParseOptionalID(reportCustomer); err != nil {
		return f, err
	}
	if f.From, err = util.ParseOptionalDate(reportFrom); err != nil {
		return f, err
	}
	if f.To, err = util.ParseOptionalDate(reportTo); err != nil {
		return f, err
	}
	return f, nil
}
