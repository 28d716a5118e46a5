// Package export renders sales history and inventory as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"retail-ledger/internal/store"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Format is an output file format.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, XLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv or xlsx)", s)
	}
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// table is a header row plus data rows; cells keep their Go type so XLSX
// gets real numbers.
type table struct {
	sheet   string
	headers []string
	widths  []float64
	rows    [][]any
}

func salesTable(sales []store.SaleView) table {
	t := table{
		sheet:   "Sales",
		headers: []string{"Sale ID", "Date", "Key Number", "Product", "Category", "Customer", "Quantity", "Unit Price", "Total", "Profit"},
		widths:  []float64{8, 20, 12, 28, 16, 22, 10, 12, 12, 12},
	}
	for _, s := range sales {
		t.rows = append(t.rows, []any{
			s.ID,
			s.SaleDate.String(),
			s.KeyNumber,
			s.ProductName,
			s.CategoryName,
			s.CustomerName,
			s.Quantity,
			s.SalePrice,
			s.Total,
			s.Profit,
		})
	}
	return t
}

func inventoryTable(products []store.ProductView) table {
	t := table{
		sheet:   "Inventory",
		headers: []string{"Key Number", "Name", "Category", "Purchase Price", "Sale Price", "Total Added", "Sold", "Remaining"},
		widths:  []float64{12, 30, 16, 14, 12, 12, 8, 11},
	}
	for _, p := range products {
		t.rows = append(t.rows, []any{
			p.KeyNumber,
			p.Name,
			p.CategoryName,
			p.PurchasePrice,
			p.SalePrice,
			p.TotalAdded,
			p.Sold,
			p.Remaining,
		})
	}
	return t
}

// Sales writes the sales listing in the given format.
func Sales(w io.Writer, f Format, sales []store.SaleView) error {
	return write(w, f, salesTable(sales))
}

// Inventory writes the product listing with stock levels in the given format.
func Inventory(w io.Writer, f Format, products []store.ProductView) error {
	return write(w, f, inventoryTable(products))
}

func write(w io.Writer, f Format, t table) error {
	switch f {
	case CSV:
		return writeCSV(w, t)
	case XLSX:
		return writeXLSX(w, t)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

func writeCSV(w io.Writer, t table) error {
	// UTF-8 BOM so spreadsheet apps detect the encoding
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.headers); err != nil {
		return err
	}
	record := make([]string, len(t.headers))
	for _, row := range t.rows {
		for i, cell := range row {
			record[i] = csvCell(cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvCell(v any) string {
	if d, ok := v.(decimal.Decimal); ok {
		return d.StringFixed(2)
	}
	return fmt.Sprint(v)
}

func writeXLSX(w io.Writer, t table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", t.sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	for i, h := range t.headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(t.sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range t.rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if d, ok := v.(decimal.Decimal); ok {
				v = d.InexactFloat64()
			}
			if err := f.SetCellValue(t.sheet, cell, v); err != nil {
				return err
			}
		}
	}
	for i, width := range t.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(t.sheet, col, col, width); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
