package models

// DefaultCategoryID is the reserved "General" category. It is seeded at
// initialization, absorbs products of deleted categories and is never deleted.
const DefaultCategoryID uint = 1

const (
	DefaultCategoryName        = "General"
	DefaultCategoryDescription = "Default category for all products"
)

// Category groups products.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}
