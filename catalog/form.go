package catalog

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"solar-store/models"
)

var (
	ErrInvalidPrice    = errors.New("price must be a non-negative number")
	ErrInvalidCategory = errors.New("unknown category")
)

// ProductForm is the dashboard product form. The binding tags are enforced by gin
// before Apply runs.
type ProductForm struct {
	Name           string `form:"name" binding:"required,min=2,max=100"`
	Description    string `form:"description" binding:"required"`
	Category       string `form:"category" binding:"required,oneof=solar security inverter"`
	Price          string `form:"price" binding:"required"`
	Stock          int    `form:"stock" binding:"min=0"`
	IsSpecialOffer bool   `form:"is_special_offer"`
}

// FormFromProduct prefills the edit form.
func FormFromProduct(p *models.Product) ProductForm {
	return ProductForm{
		Name:           p.Name,
		Description:    p.Description,
		Category:       string(p.Category),
		Price:          p.Price.String(),
		Stock:          p.Stock,
		IsSpecialOffer: p.IsSpecialOffer,
	}
}

// Apply copies the form onto p. p is untouched when an error is returned.
func (f ProductForm) Apply(p *models.Product) error {
	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil || price.IsNegative() {
		return ErrInvalidPrice
	}
	category := models.Category(f.Category)
	if !category.Valid() {
		return ErrInvalidCategory
	}

	p.Name = strings.TrimSpace(f.Name)
	p.Description = strings.TrimSpace(f.Description)
	p.Category = category
	p.Price = price
	p.Stock = f.Stock
	p.IsSpecialOffer = f.IsSpecialOffer
	return nil
}
