package store

import (
	"context"

	"github.com/shopspring/decimal"
)

// BillDateLayout renders the bill date as DD-MM-YYYY HH:MM AM/PM.
const BillDateLayout = "02-01-2006 03:04 PM"

// Bill is a denormalized snapshot of one sale for printing.
type Bill struct {
	SaleID          uint            `json:"sale_id"`
	Date            string          `json:"date"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerAddress string          `json:"customer_address"`
	ProductName     string          `json:"product_name"`
	KeyNumber       int64           `json:"key_number"`
	CategoryName    string          `json:"category_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Total           decimal.Decimal `json:"total"`
}

// GenerateBillData builds the bill for a sale. Walk-in sales carry the
// walk-in placeholder name and empty contact fields.
func (s *Store) GenerateBillData(ctx context.Context, saleID uint) (*Bill, error) {
	d, err := s.SaleDetails(ctx, saleID)
	if err != nil {
		return nil, err
	}

	return &Bill{
		SaleID:          d.ID,
		Date:            d.SaleDate.Format(BillDateLayout),
		CustomerName:    d.CustomerName,
		CustomerPhone:   d.CustomerPhone,
		CustomerEmail:   d.CustomerEmail,
		CustomerAddress: d.CustomerAddress,
		ProductName:     d.ProductName,
		KeyNumber:       d.KeyNumber,
		CategoryName:    d.CategoryName,
		Quantity:        d.Quantity,
		UnitPrice:       d.SalePrice,
		Total:           d.Total,
	}, nil
}
