// Package orders is the staff side of order handling: listing, status workflow
// and delivery cost adjustments.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"solar-store/models"
	"solar-store/statemachine"
)

var (
	ErrNotFound         = errors.New("order not found")
	ErrUnknownStatus    = errors.New("unknown order status")
	ErrDeliveryLocked   = errors.New("delivery cost can only change while the order is New or Processing")
	ErrNegativeDelivery = errors.New("delivery cost cannot be negative")

	// ErrStale means the order changed status between read and write.
	ErrStale = errors.New("order was modified concurrently")
)

// Filter narrows List. Zero values mean no restriction.
type Filter struct {
	Status models.OrderStatus
	UserID uint
}

// Summary counts orders per status for the dashboard header.
type Summary map[models.OrderStatus]int64

func List(ctx context.Context, db *gorm.DB, f Filter) ([]models.Order, error) {
	q := db.WithContext(ctx).Preload("Items").Order("created_at desc, id desc")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	var list []models.Order
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}

// ListForUser returns the orders placed while userID was logged in.
func ListForUser(ctx context.Context, db *gorm.DB, userID uint) ([]models.Order, error) {
	return List(ctx, db, Filter{UserID: userID})
}

func Summarize(ctx context.Context, db *gorm.DB) (Summary, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := db.WithContext(ctx).Model(&models.Order{}).
		Select("status, count(*) as count").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("summarize orders: %w", err)
	}
	s := Summary{}
	for _, r := range rows {
		s[r.Status] = r.Count
	}
	return s, nil
}

// Get loads an order with its items, history and customer account.
func Get(ctx context.Context, db *gorm.DB, id uint) (*models.Order, error) {
	var o models.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Preload("User").
		Preload("StatusHistory", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at, id") }).
		First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// UpdateStatus moves an order along the workflow and records who did it. The write
// is conditional on the status read, so two staff members racing on the same order
// cannot both win.
func UpdateStatus(ctx context.Context, db *gorm.DB, id uint, to models.OrderStatus, actor *models.User, note string) (*models.Order, error) {
	if !validStatus(to) {
		return nil, ErrUnknownStatus
	}
	var order models.Order
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		from := order.Status
		if err := statemachine.Orders.CanTransition(from, to); err != nil {
			return err
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStale
		}
		order.Status = to

		history := models.OrderStatusHistory{OrderID: id, FromStatus: from, ToStatus: to, Note: note}
		if actor != nil {
			history.ChangedBy = &actor.ID
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SetDeliveryCost overrides the delivery charge and recomputes the total from the
// stored item lines.
func SetDeliveryCost(ctx context.Context, db *gorm.DB, id uint, cost decimal.Decimal) (*models.Order, error) {
	if cost.IsNegative() {
		return nil, ErrNegativeDelivery
	}
	var order models.Order
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if order.Status != models.OrderNew && order.Status != models.OrderProcessing {
			return ErrDeliveryLocked
		}
		order.DeliveryCost = cost
		order.TotalPrice = order.ItemsTotal().Add(cost)
		return tx.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
			"delivery_cost": order.DeliveryCost,
			"total_price":   order.TotalPrice,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func validStatus(s models.OrderStatus) bool {
	for _, known := range models.OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}
