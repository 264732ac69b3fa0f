package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups the catalog; the set is closed.
type Category string

const (
	CategorySolar    Category = "solar"
	CategorySecurity Category = "security"
	CategoryInverter Category = "inverter"
)

// Categories lists every category in display order.
var Categories = []Category{CategorySolar, CategorySecurity, CategoryInverter}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product prices are in IQD.
type Product struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Name           string          `json:"name" gorm:"size:150;not null"`
	Description    string          `json:"description" gorm:"type:text"`
	Category       Category        `json:"category" gorm:"size:50;not null;index"`
	ImageFilename  string          `json:"image_filename" gorm:"size:255"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(14,2);not null;default:0"`
	Stock          int             `json:"stock" gorm:"not null;default:0"`
	IsSpecialOffer bool            `json:"is_special_offer" gorm:"not null;default:false;index"`
	CreatedAt      time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
