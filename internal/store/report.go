package store

import (
	"context"
	"fmt"
	"time"

	"retail-ledger/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleView is a sale joined with its product, category and customer names.
type SaleView struct {
	ID           uint             `json:"id"`
	KeyNumber    int64            `json:"key_number"`
	ProductName  string           `json:"product_name"`
	CategoryID   uint             `json:"category_id"`
	CategoryName string           `json:"category_name"`
	Quantity     int              `json:"quantity"`
	SalePrice    decimal.Decimal  `json:"sale_price"`
	Total        decimal.Decimal  `gorm:"-" json:"total"`
	Profit       decimal.Decimal  `json:"profit"`
	SaleDate     models.Timestamp `json:"sale_date"`
	CustomerID   *uint            `json:"customer_id"`
	CustomerName string           `json:"customer_name"`
}

// SaleDetail adds the purchase price and customer contact fields to a SaleView.
type SaleDetail struct {
	SaleView
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerAddress string          `json:"customer_address"`
}

// SaleFilter narrows sale listings and summaries. From and To are inclusive
// calendar days in local time.
type SaleFilter struct {
	CategoryID *uint
	CustomerID *uint
	From       *time.Time
	To         *time.Time
}

// Summary aggregates a set of sales.
type Summary struct {
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
	Margin  decimal.Decimal `json:"margin"` // profit as a percentage of revenue
}

const saleColumns = `s.id, s.key_number, p.name AS product_name, p.category_id,
	COALESCE(c.name, '') AS category_name, s.quantity, s.sale_price, s.profit, s.sale_date,
	s.customer_id, COALESCE(cu.name, ?) AS customer_name`

const saleDetailColumns = saleColumns + `, p.purchase_price,
	COALESCE(cu.phone, '') AS customer_phone, COALESCE(cu.email, '') AS customer_email,
	COALESCE(cu.address, '') AS customer_address`

func (s *Store) saleQuery(ctx context.Context, columns string) *gorm.DB {
	return s.conn(ctx).
		Table("sales AS s").
		Select(columns, models.WalkInCustomerName).
		Joins("JOIN products p ON s.key_number = p.key_number").
		Joins("LEFT JOIN categories c ON p.category_id = c.id").
		Joins("LEFT JOIN customers cu ON s.customer_id = cu.id")
}

func dayStart(t time.Time) string {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).Format(models.TimestampLayout)
}

// apply adds the filter's conditions to a query over "sales AS s" joined
// with "products AS p".
func (f SaleFilter) apply(q *gorm.DB) *gorm.DB {
	if f.CategoryID != nil {
		q = q.Where("p.category_id = ?", *f.CategoryID)
	}
	if f.CustomerID != nil {
		q = q.Where("s.customer_id = ?", *f.CustomerID)
	}
	if f.From != nil {
		q = q.Where("s.sale_date >= ?", dayStart(*f.From))
	}
	if f.To != nil {
		q = q.Where("s.sale_date < ?", dayStart(f.To.AddDate(0, 0, 1)))
	}
	return q
}

// ListSales returns matching sales, newest first.
func (s *Store) ListSales(ctx context.Context, f SaleFilter) ([]SaleView, error) {
	views := []SaleView{}
	err := f.apply(s.saleQuery(ctx, saleColumns)).
		Order("s.sale_date DESC").Order("s.id DESC").
		Scan(&views).Error
	if err != nil {
		s.logFailure("list sales", err)
		return nil, fmt.Errorf("list sales: %w", err)
	}
	for i := range views {
		views[i].fillTotal()
	}
	return views, nil
}

// SalesByCustomer returns the customer's sales, newest first.
func (s *Store) SalesByCustomer(ctx context.Context, customerID uint) ([]SaleView, error) {
	return s.ListSales(ctx, SaleFilter{CustomerID: &customerID})
}

// SalesByCategory returns sales of products in the category, newest first.
func (s *Store) SalesByCategory(ctx context.Context, categoryID uint) ([]SaleView, error) {
	return s.ListSales(ctx, SaleFilter{CategoryID: &categoryID})
}

// SaleDetails returns one sale with product, category and customer details.
func (s *Store) SaleDetails(ctx context.Context, id uint) (*SaleDetail, error) {
	var details []SaleDetail
	err := s.saleQuery(ctx, saleDetailColumns).
		Where("s.id = ?", id).
		Limit(1).
		Scan(&details).Error
	if err != nil {
		s.logFailure("sale details", err, "id", id)
		return nil, fmt.Errorf("sale details: %w", err)
	}
	if len(details) == 0 {
		return nil, fmt.Errorf("sale %d: %w", id, ErrNotFound)
	}
	d := &details[0]
	d.fillTotal()
	return d, nil
}

func (v *SaleView) fillTotal() {
	v.Total = v.SalePrice.Mul(decimal.NewFromInt(int64(v.Quantity)))
}

// TotalProfit sums the profit of every sale; zero when there are none.
func (s *Store) TotalProfit(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.conn(ctx).Model(&models.Sale{}).
		Select("COALESCE(SUM(profit), 0)").
		Row().Scan(&total)
	if err != nil {
		s.logFailure("total profit", err)
		return decimal.Zero, fmt.Errorf("total profit: %w", err)
	}
	return total.Round(2), nil
}

// TotalProfitByCategory sums the profit of sales of products in the category.
func (s *Store) TotalProfitByCategory(ctx context.Context, categoryID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.conn(ctx).Table("sales AS s").
		Select("COALESCE(SUM(s.profit), 0)").
		Joins("JOIN products p ON s.key_number = p.key_number").
		Where("p.category_id = ?", categoryID).
		Row().Scan(&total)
	if err != nil {
		s.logFailure("total profit by category", err, "category_id", categoryID)
		return decimal.Zero, fmt.Errorf("total profit by category: %w", err)
	}
	return total.Round(2), nil
}

// SalesSummary aggregates count, revenue, profit and margin over matching sales.
func (s *Store) SalesSummary(ctx context.Context, f SaleFilter) (*Summary, error) {
	var sum Summary
	q := s.conn(ctx).Table("sales AS s").
		Select(`COUNT(s.id), COALESCE(SUM(s.sale_price * s.quantity), 0), COALESCE(SUM(s.profit), 0)`).
		Joins("JOIN products p ON s.key_number = p.key_number")
	if err := f.apply(q).Row().Scan(&sum.Count, &sum.Revenue, &sum.Profit); err != nil {
		s.logFailure("sales summary", err)
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	sum.Revenue = sum.Revenue.Round(2)
	sum.Profit = sum.Profit.Round(2)
	sum.Margin = decimal.Zero
	if !sum.Revenue.IsZero() {
		sum.Margin = sum.Profit.Div(sum.Revenue).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return &sum, nil
}
