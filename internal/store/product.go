package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"retail-ledger/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NewProduct is the input of AddProduct.
type NewProduct struct {
	KeyNumber     int64
	Name          string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	TotalAdded    int
	CategoryID    uint // 0 means the default category
	ImagePath     string
	ImageData     []byte // raw image bytes, stored base64-encoded
}

// ProductUpdate lists the product fields to change; unset fields are left alone.
type ProductUpdate struct {
	Name          Optional[string]
	PurchasePrice Optional[decimal.Decimal]
	SalePrice     Optional[decimal.Decimal]
	CategoryID    Optional[uint]
	TotalAdded    Optional[int]
}

// ProductView is a product joined with its category name and derived stock.
type ProductView struct {
	KeyNumber     int64           `json:"key_number"`
	Name          string          `json:"name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	TotalAdded    int             `json:"total_added"`
	Sold          int             `json:"sold"`
	Remaining     int             `json:"remaining"`
	ImagePath     *string         `json:"image_path,omitempty"`
	ImageData     *string         `json:"-"`
	CategoryID    uint            `json:"category_id"`
	CategoryName  string          `json:"category_name"`
}

// HasImage reports whether an embedded image or a path is set.
func (p *ProductView) HasImage() bool {
	return (p.ImageData != nil && *p.ImageData != "") || (p.ImagePath != nil && *p.ImagePath != "")
}

const productColumns = `p.key_number, p.name, p.purchase_price, p.sale_price, p.total_added, p.sold,
	(p.total_added - p.sold) AS remaining, p.image_path, p.image_data, p.category_id,
	c.name AS category_name`

func (s *Store) productQuery(ctx context.Context) *gorm.DB {
	return s.conn(ctx).
		Table("products AS p").
		Select(productColumns).
		Joins("JOIN categories c ON p.category_id = c.id")
}

func (p NewProduct) validate() error {
	switch {
	case p.KeyNumber <= 0:
		return fmt.Errorf("key number must be positive: %w", ErrInvalidInput)
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("product name is empty: %w", ErrInvalidInput)
	case !p.PurchasePrice.IsPositive():
		return fmt.Errorf("purchase price must be positive: %w", ErrInvalidInput)
	case !p.SalePrice.IsPositive():
		return fmt.Errorf("sale price must be positive: %w", ErrInvalidInput)
	case p.TotalAdded < 0:
		return fmt.Errorf("quantity cannot be negative: %w", ErrInvalidInput)
	}
	return nil
}

// AddProduct stocks a new product. A key number already in use fails with
// ErrDuplicateKey and changes nothing.
func (s *Store) AddProduct(ctx context.Context, in NewProduct) error {
	if err := in.validate(); err != nil {
		return err
	}
	if in.CategoryID == 0 {
		in.CategoryID = models.DefaultCategoryID
	}

	p := models.Product{
		KeyNumber:     in.KeyNumber,
		Name:          strings.TrimSpace(in.Name),
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		TotalAdded:    in.TotalAdded,
		Sold:          0,
		CategoryID:    in.CategoryID,
		ImageData:     models.EncodeImage(in.ImageData),
	}
	if in.ImagePath != "" {
		p.ImagePath = &in.ImagePath
	}

	return s.tx(ctx, "add product", func(tx *gorm.DB) error {
		if err := categoryExists(tx, in.CategoryID); err != nil {
			return err
		}
		if err := tx.Create(&p).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("product %d: %w", in.KeyNumber, ErrDuplicateKey)
			}
			return fmt.Errorf("insert product: %w", err)
		}
		return nil
	})
}

// UpdateProduct applies the set fields of u to the product.
func (s *Store) UpdateProduct(ctx context.Context, key int64, u ProductUpdate) error {
	changes := make(map[string]any)

	if name, ok := u.Name.Get(); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("product name is empty: %w", ErrInvalidInput)
		}
		changes["name"] = name
	}
	if price, ok := u.PurchasePrice.Get(); ok {
		if !price.IsPositive() {
			return fmt.Errorf("purchase price must be positive: %w", ErrInvalidInput)
		}
		changes["purchase_price"] = price
	}
	if price, ok := u.SalePrice.Get(); ok {
		if !price.IsPositive() {
			return fmt.Errorf("sale price must be positive: %w", ErrInvalidInput)
		}
		changes["sale_price"] = price
	}
	categoryID, setCategory := u.CategoryID.Get()
	if setCategory {
		changes["category_id"] = categoryID
	}
	totalAdded, setTotal := u.TotalAdded.Get()
	if setTotal {
		changes["total_added"] = totalAdded
	}

	if len(changes) == 0 {
		return ErrNoChanges
	}

	return s.tx(ctx, "update product", func(tx *gorm.DB) error {
		var current models.Product
		if err := tx.Select("key_number", "sold").First(&current, "key_number = ?", key).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %d: %w", key, ErrNotFound)
			}
			return fmt.Errorf("load product: %w", err)
		}
		if setTotal && totalAdded < current.Sold {
			return fmt.Errorf("total added %d is below units already sold (%d): %w",
				totalAdded, current.Sold, ErrInvalidInput)
		}
		if setCategory {
			if err := categoryExists(tx, categoryID); err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Product{}).
			Where("key_number = ?", key).
			Updates(changes).Error; err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		return nil
	})
}

// UpdateProductImage replaces the product's image path and embedded image.
// A nil or empty value clears the column.
func (s *Store) UpdateProductImage(ctx context.Context, key int64, path *string, data []byte) error {
	var imagePath *string
	if path != nil && *path != "" {
		imagePath = path
	}

	res := s.conn(ctx).Model(&models.Product{}).
		Where("key_number = ?", key).
		Updates(map[string]any{
			"image_path": imagePath,
			"image_data": models.EncodeImage(data),
		})
	if err := res.Error; err != nil {
		s.logFailure("update product image", err, "key_number", key)
		return fmt.Errorf("update product image: %w", err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", key, ErrNotFound)
	}
	return nil
}

// RestockProduct adds quantity units to the product's cumulative stock.
func (s *Store) RestockProduct(ctx context.Context, key int64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("restock quantity must be positive: %w", ErrInvalidInput)
	}

	res := s.conn(ctx).Model(&models.Product{}).
		Where("key_number = ?", key).
		Update("total_added", gorm.Expr("total_added + ?", quantity))
	if err := res.Error; err != nil {
		s.logFailure("restock product", err, "key_number", key)
		return fmt.Errorf("restock product: %w", err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", key, ErrNotFound)
	}
	return nil
}

// GetProduct returns one product with its category name and remaining stock.
func (s *Store) GetProduct(ctx context.Context, key int64) (*ProductView, error) {
	var views []ProductView
	if err := s.productQuery(ctx).Where("p.key_number = ?", key).Limit(1).Scan(&views).Error; err != nil {
		s.logFailure("get product", err, "key_number", key)
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("product %d: %w", key, ErrNotFound)
	}
	return &views[0], nil
}

// ListProducts returns products ordered by key number, optionally limited to one category.
func (s *Store) ListProducts(ctx context.Context, categoryID *uint) ([]ProductView, error) {
	q := s.productQuery(ctx)
	if categoryID != nil {
		q = q.Where("p.category_id = ?", *categoryID)
	}

	views := []ProductView{}
	if err := q.Order("p.key_number").Scan(&views).Error; err != nil {
		s.logFailure("list products", err)
		return nil, fmt.Errorf("list products: %w", err)
	}
	return views, nil
}

// SearchProducts matches term against the key number (when term is an
// integer) or anywhere in the product name, ignoring case.
func (s *Store) SearchProducts(ctx context.Context, term string) ([]ProductView, error) {
	term = strings.TrimSpace(term)
	nameClause := `LOWER(p.name) LIKE ? ESCAPE '\'`

	q := s.productQuery(ctx)
	if key, err := strconv.ParseInt(term, 10, 64); err == nil {
		q = q.Where("p.key_number = ? OR "+nameClause, key, likePattern(term))
	} else {
		q = q.Where(nameClause, likePattern(term))
	}

	views := []ProductView{}
	if err := q.Order("p.key_number").Scan(&views).Error; err != nil {
		s.logFailure("search products", err, "term", term)
		return nil, fmt.Errorf("search products: %w", err)
	}
	return views, nil
}

// DeleteProduct removes a product that has never been sold. Sales history
// takes precedence: a product referenced by any sale is kept.
func (s *Store) DeleteProduct(ctx context.Context, key int64) error {
	return s.tx(ctx, "delete product", func(tx *gorm.DB) error {
		var sales int64
		if err := tx.Model(&models.Sale{}).Where("key_number = ?", key).Count(&sales).Error; err != nil {
			return fmt.Errorf("count sales: %w", err)
		}
		if sales > 0 {
			return fmt.Errorf("product %d (%d sales): %w", key, sales, ErrProductHasSales)
		}

		res := tx.Where("key_number = ?", key).Delete(&models.Product{})
		if res.Error != nil {
			return fmt.Errorf("delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product %d: %w", key, ErrNotFound)
		}
		return nil
	})
}
