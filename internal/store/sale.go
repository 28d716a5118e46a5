package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"retail-ledger/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleLine is one product line of a checkout.
type SaleLine struct {
	KeyNumber int64           `json:"key_number"`
	Quantity  int             `json:"quantity"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

func (l SaleLine) validate() error {
	if l.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", ErrInvalidInput)
	}
	if !l.SalePrice.IsPositive() {
		return fmt.Errorf("sale price must be positive: %w", ErrInvalidInput)
	}
	return nil
}

// RecordSale sells quantity units of a product at salePrice and returns the
// new sale id. Profit is frozen from the purchase price at this moment. If
// fewer than quantity units remain the sale fails with ErrInsufficientStock
// and nothing changes.
func (s *Store) RecordSale(ctx context.Context, key int64, quantity int, salePrice decimal.Decimal, customerID *uint) (uint, error) {
	line := SaleLine{KeyNumber: key, Quantity: quantity, SalePrice: salePrice}
	if err := line.validate(); err != nil {
		return 0, err
	}

	var id uint
	err := s.tx(ctx, "record sale", func(tx *gorm.DB) error {
		if customerID != nil {
			if err := customerExists(tx, *customerID); err != nil {
				return err
			}
		}
		var err error
		id, err = recordSale(tx, line, customerID, s.now())
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Checkout records every line of a cart for one customer. Either all lines
// are sold or none are.
func (s *Store) Checkout(ctx context.Context, customerID *uint, lines []SaleLine) ([]uint, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", ErrInvalidInput)
	}
	for _, l := range lines {
		if err := l.validate(); err != nil {
			return nil, fmt.Errorf("product %d: %w", l.KeyNumber, err)
		}
	}

	ids := make([]uint, 0, len(lines))
	now := s.now()
	err := s.tx(ctx, "checkout", func(tx *gorm.DB) error {
		if customerID != nil {
			if err := customerExists(tx, *customerID); err != nil {
				return err
			}
		}
		for _, l := range lines {
			id, err := recordSale(tx, l, customerID, now)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func recordSale(tx *gorm.DB, line SaleLine, customerID *uint, now time.Time) (uint, error) {
	var p models.Product
	err := tx.Select("key_number", "purchase_price", "total_added", "sold").
		First(&p, "key_number = ?", line.KeyNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("product %d: %w", line.KeyNumber, ErrNotFound)
		}
		return 0, fmt.Errorf("load product: %w", err)
	}

	if remaining := p.Remaining(); line.Quantity > remaining {
		return 0, fmt.Errorf("product %d: requested %d, remaining %d: %w",
			line.KeyNumber, line.Quantity, remaining, ErrInsufficientStock)
	}

	sale := models.Sale{
		KeyNumber:  line.KeyNumber,
		Quantity:   line.Quantity,
		SalePrice:  line.SalePrice,
		SaleDate:   models.NewTimestamp(now),
		Profit:     line.SalePrice.Sub(p.PurchasePrice).Mul(decimal.NewFromInt(int64(line.Quantity))),
		CustomerID: customerID,
	}
	if err := tx.Create(&sale).Error; err != nil {
		return 0, fmt.Errorf("insert sale: %w", err)
	}

	res := tx.Model(&models.Product{}).
		Where("key_number = ? AND total_added - sold >= ?", line.KeyNumber, line.Quantity).
		Update("sold", gorm.Expr("sold + ?", line.Quantity))
	if res.Error != nil {
		return 0, fmt.Errorf("update sold: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("product %d: %w", line.KeyNumber, ErrInsufficientStock)
	}
	return sale.ID, nil
}

// DeleteSale cancels a sale and returns its units to stock.
func (s *Store) DeleteSale(ctx context.Context, id uint) error {
	return s.tx(ctx, "delete sale", func(tx *gorm.DB) error {
		var sale models.Sale
		if err := tx.Select("id", "key_number", "quantity").First(&sale, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("sale %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("load sale: %w", err)
		}

		res := tx.Delete(&models.Sale{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete sale: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("sale %d: %w", id, ErrNotFound)
		}

		if err := tx.Model(&models.Product{}).
			Where("key_number = ?", sale.KeyNumber).
			Update("sold", gorm.Expr("sold - ?", sale.Quantity)).Error; err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
		return nil
	})
}

// ClearSalesHistory deletes every sale, resets all sold counters to zero and
// returns how many sales were removed.
func (s *Store) ClearSalesHistory(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.tx(ctx, "clear sales history", func(tx *gorm.DB) error {
		res := tx.Where("1 = 1").Delete(&models.Sale{})
		if res.Error != nil {
			return fmt.Errorf("delete sales: %w", res.Error)
		}
		deleted = res.RowsAffected

		if err := tx.Model(&models.Product{}).Where("1 = 1").Update("sold", 0).Error; err != nil {
			return fmt.Errorf("reset sold: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("sales history cleared", "deleted", deleted)
	return deleted, nil
}
