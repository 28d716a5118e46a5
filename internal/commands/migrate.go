package commands

import (
	"retail-ledger/internal/output"

	"github.com/spf13/cobra"
)

// migrateCmd brings the schema up to date. Every other command migrates on
// open as well; this one exists for install scripts.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the ledger database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(l *ledger) error {
			output.Success(cmd.OutOrStdout(), "Database ready at %s", l.cfg.Database.Path)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
