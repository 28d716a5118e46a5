package commands

import (
	"fmt"
	"text/tabwriter"

	"retail-ledger/internal/backup"
	"retail-ledger/internal/output"
	"retail-ledger/internal/util"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create, list and restore encrypted ledger backups",
	Long: `Create, list and restore encrypted ledger backups.

Backups are written to backup.dir and encrypted with security.encryption_key.

Subcommands:
  create         - Snapshot the whole ledger
  list           - Show existing backups
  restore <id>   - Replace the ledger with a backup
  delete <id>    - Remove a backup file`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Snapshot the whole ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackups(func(svc *backup.Service) error {
			b, err := svc.Create(cmd.Context())
			if err != nil {
				return err
			}
			output.Success(cmd.OutOrStdout(), "Backup #%d written: %s (%d sales)", b.ID, b.FileName, b.Sales)
			return nil
		})
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show existing backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackups(func(svc *backup.Service) error {
			items, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(items) == 0 {
				output.Muted(w, "No backups yet")
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tSALES\tSIZE\tFILE")
			for _, b := range items {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n",
					b.ID, b.CreatedAt.Format("2006-01-02 15:04"), b.Sales, b.Size, b.FileName)
			}
			return tw.Flush()
		})
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Replace the ledger with a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := util.ParseID(args[0])
		if err != nil {
			return err
		}
		return withBackups(func(svc *backup.Service) error {
			n, err := svc.Restore(cmd.Context(), id)
			if err != nil {
				return err
			}
			output.Success(cmd.OutOrStdout(), "Restored %d categories, %d products, %d customers, %d sales",
				n.Categories, n.Products, n.Customers, n.Sales)
			return nil
		})
	},
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := util.ParseID(args[0])
		if err != nil {
			return err
		}
		return withBackups(func(svc *backup.Service) error {
			if err := svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			output.Success(cmd.OutOrStdout(), "Backup #%d deleted", id)
			return nil
		})
	},
}

func init() {
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd, backupDeleteCmd)
	rootCmd.AddCommand(backupCmd)
}

func withBackups(fn func(svc *backup.Service) error) error {
	return withLedger(func(l *ledger) error {
		return fn(backup.NewService(l.db, l.cfg.Security.EncryptionKey, l.cfg.Backup.Dir, l.log))
	})
}
