package models

import (
	"encoding/base64"

	"github.com/shopspring/decimal"
)

// Product is a stock item identified by a key number chosen by the shop.
// Remaining stock (TotalAdded - Sold) is always derived, never stored.
type Product struct {
	KeyNumber     int64           `gorm:"primaryKey;autoIncrement:false" json:"key_number"`
	Name          string          `gorm:"type:text;not null" json:"name"`
	PurchasePrice decimal.Decimal `gorm:"type:real;not null" json:"purchase_price"`
	SalePrice     decimal.Decimal `gorm:"type:real;not null" json:"sale_price"`
	TotalAdded    int             `gorm:"not null" json:"total_added"` // cumulative units ever stocked
	Sold          int             `gorm:"default:0" json:"sold"`       // cumulative units sold
	ImagePath     *string         `gorm:"type:text" json:"image_path,omitempty"`
	ImageData     *string         `gorm:"type:text" json:"image_data,omitempty"` // base64 of the original image bytes
	CategoryID    uint            `gorm:"index;default:1" json:"category_id"`

	Category *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// Remaining returns units still in stock.
func (p *Product) Remaining() int {
	return p.TotalAdded - p.Sold
}

// ImageBytes decodes the embedded image, if any.
func (p *Product) ImageBytes() ([]byte, error) {
	if p.ImageData == nil || *p.ImageData == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(*p.ImageData)
}

// EncodeImage returns the text form stored in image_data, nil for no image.
func EncodeImage(data []byte) *string {
	if len(data) == 0 {
		return nil
	}
	s := base64.StdEncoding.EncodeToString(data)
	return &s
}
