package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"retail-ledger/internal/models"

	"gorm.io/gorm"
)

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := s.conn(ctx).Order("name").Find(&list).Error; err != nil {
		s.logFailure("list categories", err)
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

// GetCategory returns one category.
func (s *Store) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := s.conn(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		s.logFailure("get category", err, "id", id)
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// AddCategory creates a category and returns its id.
func (s *Store) AddCategory(ctx context.Context, name, description string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("category name is empty: %w", ErrInvalidInput)
	}

	c := models.Category{Name: name, Description: description}
	if err := s.conn(ctx).Create(&c).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("category %q: %w", name, ErrDuplicateName)
		}
		s.logFailure("add category", err, "name", name)
		return 0, fmt.Errorf("add category: %w", err)
	}
	return c.ID, nil
}

// UpdateCategory renames and redescribes a category.
func (s *Store) UpdateCategory(ctx context.Context, id uint, name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("category name is empty: %w", ErrInvalidInput)
	}

	res := s.conn(ctx).Model(&models.Category{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "description": description})
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q: %w", name, ErrDuplicateName)
		}
		s.logFailure("update category", err, "id", id)
		return fmt.Errorf("update category: %w", err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCategory moves the category's products to the default category and
// removes it, in one transaction. The default category is never deleted.
func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	if id == models.DefaultCategoryID {
		return ErrDefaultCategory
	}

	return s.tx(ctx, "delete category", func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("category_id = ?", id).
			Update("category_id", models.DefaultCategoryID).Error; err != nil {
			return fmt.Errorf("reassign products: %w", err)
		}

		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete category: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func categoryExists(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Model(&models.Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return nil
}
