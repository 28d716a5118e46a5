package models

// Customer is a named buyer. Sales without a customer are walk-in sales.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Phone     string    `gorm:"type:text" json:"phone"`
	Email     string    `gorm:"type:text" json:"email"`
	Address   string    `gorm:"type:text" json:"address"`
	CreatedAt Timestamp `gorm:"type:text" json:"created_at"` // set once on insert
}
