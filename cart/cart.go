// Package cart holds the visitor's shopping cart: product id to quantity, kept in the
// visitor's session and priced against live products on every read.
package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"solar-store/models"
)

// MaxLines caps distinct products so the cart stays well inside a session cookie.
const MaxLines = 100

var ErrFull = errors.New("cart has too many products")

// Cart maps a product id, as a decimal string, to a positive quantity.
type Cart map[string]int

// Store persists a cart in per-visitor state. Load never returns a nil Cart.
type Store interface {
	Load(r *http.Request) (Cart, error)
	Save(w http.ResponseWriter, r *http.Request, c Cart) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

func key(productID uint) string {
	return strconv.FormatUint(uint64(productID), 10)
}

// Add increments the quantity of a product by one. A product not yet in a cart
// holding MaxLines lines is refused with ErrFull.
func (c Cart) Add(productID uint) error {
	k := key(productID)
	if _, ok := c[k]; !ok && len(c) >= MaxLines {
		return ErrFull
	}
	c[k]++
	return nil
}

// Remove drops the product entirely and reports whether it was present.
func (c Cart) Remove(productID uint) bool {
	k := key(productID)
	if _, ok := c[k]; !ok {
		return false
	}
	delete(c, k)
	return true
}

// Count is the number of units across all lines.
func (c Cart) Count() int {
	n := 0
	for _, qty := range c {
		if qty > 0 {
			n += qty
		}
	}
	return n
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

type Line struct {
	Product  models.Product
	Quantity int
	Total    decimal.Decimal
}

// View is a cart priced at read time.
type View struct {
	Lines    []Line
	Subtotal decimal.Decimal
}

func (v *View) IsEmpty() bool {
	return len(v.Lines) == 0
}

// Price resolves every entry to a live product. Entries whose product no longer exists,
// malformed keys and non-positive quantities are skipped silently. Lines are ordered by
// product id.
func Price(ctx context.Context, db *gorm.DB, c Cart) (*View, error) {
	qty := make(map[uint]int, len(c))
	ids := make([]uint, 0, len(c))
	for k, n := range c {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil || id == 0 || n <= 0 {
			continue
		}
		qty[uint(id)] = n
		ids = append(ids, uint(id))
	}

	view := &View{Subtotal: decimal.Zero}
	if len(ids) == 0 {
		return view, nil
	}

	var products []models.Product
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("load cart products: %w", err)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	for _, p := range products {
		n := qty[p.ID]
		total := p.Price.Mul(decimal.NewFromInt(int64(n)))
		view.Lines = append(view.Lines, Line{Product: p, Quantity: n, Total: total})
		view.Subtotal = view.Subtotal.Add(total)
	}
	return view, nil
}
