package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment state of an order
type OrderStatus string

const (
	OrderNew        OrderStatus = "New"
	OrderProcessing OrderStatus = "Processing"
	OrderCompleted  OrderStatus = "Completed"
	OrderCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists every order status in workflow order.
var OrderStatuses = []OrderStatus{OrderNew, OrderProcessing, OrderCompleted, OrderCancelled}

// Order is a placed purchase. TotalPrice is always the sum of the item lines plus
// DeliveryCost; anything that changes DeliveryCost recomputes it.
type Order struct {
	ID            uint                 `json:"id" gorm:"primaryKey"`
	UserID        *uint                `json:"user_id" gorm:"index"`
	User          *User                `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CustomerName  string               `json:"customer_name" gorm:"size:150;not null"`
	PhoneNumber   string               `json:"phone_number" gorm:"size:20;not null"`
	Address       string               `json:"address" gorm:"type:text;not null"`
	DeliveryDate  time.Time            `json:"delivery_date" gorm:"type:date;not null"`
	DeliveryCost  decimal.Decimal      `json:"delivery_cost" gorm:"type:decimal(14,2);not null"`
	TotalPrice    decimal.Decimal      `json:"total_price" gorm:"type:decimal(14,2);not null"`
	Status        OrderStatus          `json:"status" gorm:"size:50;not null;default:'New';index"`
	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time            `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ItemsTotal sums quantity × frozen price over the order lines.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// OrderItem deliberately has no Product association: products can be hard deleted
// while old orders keep the id and name snapshot.
type OrderItem struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	OrderID         uint            `json:"order_id" gorm:"not null;index"`
	ProductID       uint            `json:"product_id" gorm:"not null;index"`
	ProductName     string          `json:"product_name" gorm:"size:150"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase" gorm:"type:decimal(14,2);not null"` // snapshot price at time of order
}

func (it OrderItem) LineTotal() decimal.Decimal {
	return it.PriceAtPurchase.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// OrderStatusHistory tracks every status change
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status" gorm:"size:50"`
	ToStatus   OrderStatus `json:"to_status" gorm:"size:50;not null"`
	ChangedBy  *uint       `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
