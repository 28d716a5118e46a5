package commands

import (
	"fmt"
	"io"
	"strconv"

	"retail-ledger/internal/config"
	"retail-ledger/internal/output"
	"retail-ledger/internal/store"
	"retail-ledger/internal/util"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var billCmd = &cobra.Command{
	Use:   "bill <sale-id>",
	Short: "Print the bill for a sale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := util.ParseID(args[0])
		if err != nil {
			return err
		}
		return withLedger(func(l *ledger) error {
			bill, err := l.store.GenerateBillData(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderBill(cmd.OutOrStdout(), l.cfg.Shop, bill)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(billCmd)
}

func money(currency string, d decimal.Decimal) string {
	return currency + d.StringFixed(2)
}

func renderBill(w io.Writer, shop config.ShopConfig, b *store.Bill) {
	fields := []output.Field{
		{Label: "Address", Value: shop.Address},
		{Label: "Phone", Value: shop.Phone},
		{},
		{Label: "Bill No.", Value: strconv.FormatUint(uint64(b.SaleID), 10)},
		{Label: "Date", Value: b.Date},
		{Label: "Customer", Value: b.CustomerName},
		{Label: "Phone", Value: b.CustomerPhone},
		{Label: "Email", Value: b.CustomerEmail},
		{Label: "Address", Value: b.CustomerAddress},
		{},
		{Label: "Item", Value: fmt.Sprintf("%s (#%d)", b.ProductName, b.KeyNumber)},
		{Label: "Category", Value: b.CategoryName},
		{Label: "Quantity", Value: strconv.Itoa(b.Quantity)},
		{Label: "Unit price", Value: money(shop.Currency, b.UnitPrice)},
		{},
		{Label: "Total", Value: money(shop.Currency, b.Total)},
	}
	fmt.Fprintln(w, output.Box(shop.Name, fields))
}
