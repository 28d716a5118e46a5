package models

import "github.com/shopspring/decimal"

// WalkInCustomerName is shown for sales without a customer.
const WalkInCustomerName = "Walk-in Customer"

// Sale is the permanent record of one sold product line. Profit is computed
// from the purchase price at the time of sale and never recomputed.
type Sale struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	KeyNumber  int64           `gorm:"index;not null" json:"key_number"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	SalePrice  decimal.Decimal `gorm:"type:real;not null" json:"sale_price"`
	SaleDate   Timestamp       `gorm:"type:text;index;not null" json:"sale_date"`
	Profit     decimal.Decimal `gorm:"type:real;not null" json:"profit"`
	CustomerID *uint           `gorm:"index" json:"customer_id"`

	Product  *Product  `gorm:"foreignKey:KeyNumber;references:KeyNumber" json:"-"`
	Customer *Customer `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}
