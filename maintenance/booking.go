// Package maintenance captures on-site service requests and moves them through the
// visit workflow.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"solar-store/models"
	"solar-store/statemachine"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrMissingContact    = errors.New("customer name and phone number are required")
	ErrInvalidCoordinate = errors.New("invalid coordinates")
	ErrUnknownStatus     = errors.New("unknown booking status")
)

// Form is the public booking form. Coordinates arrive as text filled in by the
// browser's geolocation and may be empty.
type Form struct {
	CustomerName string `form:"customer_name"`
	PhoneNumber  string `form:"phone_number"`
	ServiceType  string `form:"service_type"`
	Latitude     string `form:"latitude"`
	Longitude    string `form:"longitude"`
}

// Booking validates f and returns an unsaved Pending booking.
func (f Form) Booking() (*models.MaintenanceBooking, error) {
	name := strings.TrimSpace(f.CustomerName)
	phone := strings.TrimSpace(f.PhoneNumber)
	if name == "" || phone == "" {
		return nil, ErrMissingContact
	}
	lat, err := parseCoordinate(f.Latitude, 90)
	if err != nil {
		return nil, err
	}
	lng, err := parseCoordinate(f.Longitude, 180)
	if err != nil {
		return nil, err
	}
	return &models.MaintenanceBooking{
		CustomerName: name,
		PhoneNumber:  phone,
		ServiceType:  strings.TrimSpace(f.ServiceType),
		Latitude:     lat,
		Longitude:    lng,
		Status:       models.BookingPending,
	}, nil
}

func parseCoordinate(raw string, limit float64) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(v >= -limit && v <= limit) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCoordinate, raw)
	}
	return &v, nil
}

// Create validates and stores a booking.
func Create(ctx context.Context, db *gorm.DB, f Form) (*models.MaintenanceBooking, error) {
	b, err := f.Booking()
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return b, nil
}

// List returns bookings newest first, optionally restricted to one status.
func List(ctx context.Context, db *gorm.DB, status models.BookingStatus) ([]models.MaintenanceBooking, error) {
	q := db.WithContext(ctx).Order("created_at desc, id desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.MaintenanceBooking
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return list, nil
}

func CountPending(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&models.MaintenanceBooking{}).
		Where("status = ?", models.BookingPending).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

// UpdateStatus applies a staff transition. The update only lands if the status is
// still the one that was validated.
func UpdateStatus(ctx context.Context, db *gorm.DB, id uint, to models.BookingStatus) (*models.MaintenanceBooking, error) {
	switch to {
	case models.BookingPending, models.BookingScheduled, models.BookingCompleted:
	default:
		return nil, ErrUnknownStatus
	}

	var b models.MaintenanceBooking
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := statemachine.Bookings.CanTransition(b.Status, to); err != nil {
			return err
		}
		res := tx.Model(&models.MaintenanceBooking{}).
			Where("id = ? AND status = ?", id, b.Status).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: booking %d changed concurrently", statemachine.ErrInvalidTransition, id)
		}
		b.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}
