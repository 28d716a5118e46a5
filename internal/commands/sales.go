package commands

import (
	"errors"

	"retail-ledger/internal/output"

	"github.com/spf13/cobra"
)

var clearConfirmed bool

var salesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Sales history maintenance",
}

var salesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every sale and reset sold counts",
	Long: `Delete every sale and reset every product's sold count to zero.
Stock added stays as it is. Take a backup first; this cannot be undone.

Example:
  retail-ledger backup create && retail-ledger sales clear --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearConfirmed {
			return errors.New("refusing to clear sales history without --yes")
		}
		return withLedger(func(l *ledger) error {
			n, err := l.store.ClearSalesHistory(cmd.Context())
			if err != nil {
				return err
			}
			if n == 0 {
				output.Warning(cmd.OutOrStdout(), "No sales to clear")
				return nil
			}
			output.Success(cmd.OutOrStdout(), "Cleared %d sales", n)
			return nil
		})
	},
}

func init() {
	salesClearCmd.Flags().BoolVar(&clearConfirmed, "yes", false, "Confirm clearing the whole sales history")
	salesCmd.AddCommand(salesClearCmd)
	rootCmd.AddCommand(salesCmd)
}
