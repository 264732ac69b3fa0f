// Package checkout turns a session cart into a persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"solar-store/cart"
	"solar-store/models"
)

const (
	// DateLayout is the format of the delivery_date form field.
	DateLayout = "2006-01-02"
	// MinLeadDays is how many calendar days after today the earliest delivery may be.
	MinLeadDays = 2
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrDeliveryTooSoon = errors.New("delivery date is too soon")
)

// FieldError reports a missing or malformed form field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Form is the submitted checkout form.
type Form struct {
	CustomerName string `form:"customer_name"`
	Phone        string `form:"phone"`
	Address      string `form:"address"`
	DeliveryDate string `form:"delivery_date"`
}

// Quote is the cart priced for checkout.
type Quote struct {
	Cart         *cart.View
	DeliveryCost decimal.Decimal
	Total        decimal.Decimal
}

type Service struct {
	db           *gorm.DB
	deliveryCost decimal.Decimal
	now          func() time.Time
}

type Option func(*Service)

// WithClock overrides time.Now for date validation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(db *gorm.DB, deliveryCost decimal.Decimal, opts ...Option) *Service {
	s := &Service{db: db, deliveryCost: deliveryCost, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) DeliveryCost() decimal.Decimal {
	return s.deliveryCost
}

// Quote prices c against live products; any total computed earlier is ignored.
func (s *Service) Quote(ctx context.Context, c cart.Cart) (*Quote, error) {
	view, err := cart.Price(ctx, s.db, c)
	if err != nil {
		return nil, fmt.Errorf("price cart: %w", err)
	}
	return &Quote{
		Cart:         view,
		DeliveryCost: s.deliveryCost,
		Total:        view.Subtotal.Add(s.deliveryCost),
	}, nil
}

// EarliestDeliveryDate is midnight, local time, MinLeadDays after today.
func (s *Service) EarliestDeliveryDate() time.Time {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, MinLeadDays)
}

// Validate checks the required fields and returns the parsed delivery date.
func (s *Service) Validate(f Form) (time.Time, error) {
	required := []struct{ name, value string }{
		{"phone", f.Phone},
		{"address", f.Address},
		{"delivery_date", f.DeliveryDate},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return time.Time{}, &FieldError{Field: field.name, Reason: "required"}
		}
	}

	earliest := s.EarliestDeliveryDate()
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(f.DeliveryDate), earliest.Location())
	if err != nil {
		return time.Time{}, &FieldError{Field: "delivery_date", Reason: "expected YYYY-MM-DD"}
	}
	if date.Before(earliest) {
		return time.Time{}, fmt.Errorf("%w: %s is before %s",
			ErrDeliveryTooSoon, date.Format(DateLayout), earliest.Format(DateLayout))
	}
	return date, nil
}

// PlaceOrder validates f and writes the order, its items and the first status history
// row in one transaction. Item prices are copied from the products as they are now.
// Clearing the cart is left to the caller, after a nil error. The returned Quote is
// set whenever pricing succeeded, so a failed submission can redisplay the cart.
func (s *Service) PlaceOrder(ctx context.Context, user *models.User, c cart.Cart, f Form) (*models.Order, *Quote, error) {
	quote, err := s.Quote(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	if quote.Cart.IsEmpty() {
		return nil, quote, ErrEmptyCart
	}

	date, err := s.Validate(f)
	if err != nil {
		return nil, quote, err
	}

	order := &models.Order{
		CustomerName: customerName(user, f.CustomerName),
		PhoneNumber:  strings.TrimSpace(f.Phone),
		Address:      strings.TrimSpace(f.Address),
		DeliveryDate: date,
		DeliveryCost: quote.DeliveryCost,
		TotalPrice:   quote.Total,
		Status:       models.OrderNew,
	}
	history := models.OrderStatusHistory{ToStatus: models.OrderNew, Note: "Order placed by customer"}
	if user != nil {
		order.UserID = &user.ID
		history.ChangedBy = &user.ID
	}
	for _, line := range quote.Cart.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:       line.Product.ID,
			ProductName:     line.Product.Name,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.Product.Price,
		})
	}
	order.StatusHistory = []models.OrderStatusHistory{history}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, quote, fmt.Errorf("create order: %w", err)
	}
	return order, quote, nil
}

func customerName(user *models.User, submitted string) string {
	if name := strings.TrimSpace(submitted); name != "" {
		return name
	}
	if user != nil {
		if name := user.DisplayName(); name != "" {
			return name
		}
	}
	return "Customer"
}
