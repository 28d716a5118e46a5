package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"retail-ledger/internal/util"

	"github.com/spf13/cobra"
)

const minPasswordLen = 8

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Hash an admin password for security.admin_password_hash",
	Long: `Print the hash to paste into config.yaml under security.admin_password_hash.

The password is read from the first argument or, when omitted, from the
first line of standard input.

Examples:
  retail-ledger hash-password 'Counter#2024'
  echo 'Counter#2024' | retail-ledger hash-password`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) == 1 {
			password = args[0]
		} else {
			p, err := readLine(cmd.InOrStdin())
			if err != nil {
				return err
			}
			password = p
		}

		hash, err := hashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLen {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	return util.HashPassword(password)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
