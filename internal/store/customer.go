package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"retail-ledger/internal/models"

	"gorm.io/gorm"
)

// CustomerInput carries the editable customer fields.
type CustomerInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (in CustomerInput) normalize() (CustomerInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" {
		return in, fmt.Errorf("customer name is empty: %w", ErrInvalidInput)
	}
	return in, nil
}

// AddCustomer registers a customer and returns its id.
func (s *Store) AddCustomer(ctx context.Context, in CustomerInput) (uint, error) {
	in, err := in.normalize()
	if err != nil {
		return 0, err
	}

	c := models.Customer{
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		CreatedAt: models.NewTimestamp(s.now()),
	}
	if err := s.conn(ctx).Create(&c).Error; err != nil {
		s.logFailure("add customer", err, "name", in.Name)
		return 0, fmt.Errorf("add customer: %w", err)
	}
	return c.ID, nil
}

// GetCustomer returns one customer.
func (s *Store) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := s.conn(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		s.logFailure("get customer", err, "id", id)
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// ListCustomers returns every customer ordered by name.
func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	list := []models.Customer{}
	if err := s.conn(ctx).Order("name").Order("id").Find(&list).Error; err != nil {
		s.logFailure("list customers", err)
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return list, nil
}

// SearchCustomers matches term anywhere in the name or phone, ignoring case.
func (s *Store) SearchCustomers(ctx context.Context, term string) ([]models.Customer, error) {
	pattern := likePattern(strings.TrimSpace(term))

	list := []models.Customer{}
	err := s.conn(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(phone) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("name").Order("id").
		Find(&list).Error
	if err != nil {
		s.logFailure("search customers", err, "term", term)
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return list, nil
}

// UpdateCustomer replaces the editable fields. The creation time is kept.
func (s *Store) UpdateCustomer(ctx context.Context, id uint, in CustomerInput) error {
	in, err := in.normalize()
	if err != nil {
		return err
	}

	res := s.conn(ctx).Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":    in.Name,
			"phone":   in.Phone,
			"email":   in.Email,
			"address": in.Address,
		})
	if err := res.Error; err != nil {
		s.logFailure("update customer", err, "id", id)
		return fmt.Errorf("update customer: %w", err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCustomer removes a customer. Their sales stay in the ledger as
// walk-in sales.
func (s *Store) DeleteCustomer(ctx context.Context, id uint) error {
	return s.tx(ctx, "delete customer", func(tx *gorm.DB) error {
		if err := tx.Model(&models.Sale{}).
			Where("customer_id = ?", id).
			Update("customer_id", nil).Error; err != nil {
			return fmt.Errorf("detach sales: %w", err)
		}

		res := tx.Delete(&models.Customer{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete customer: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func customerExists(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Model(&models.Customer{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check customer: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return nil
}
