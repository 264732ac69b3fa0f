package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingScheduled BookingStatus = "Scheduled"
	BookingCompleted BookingStatus = "Completed"
)

// MaintenanceBooking is an on-site service request. Coordinates come from the
// browser's geolocation and are optional.
type MaintenanceBooking struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	CustomerName string        `json:"customer_name" gorm:"size:150;not null"`
	PhoneNumber  string        `json:"phone_number" gorm:"size:20;not null"`
	ServiceType  string        `json:"service_type" gorm:"size:100"`
	Latitude     *float64      `json:"latitude"`
	Longitude    *float64      `json:"longitude"`
	Status       BookingStatus `json:"status" gorm:"size:50;not null;default:'Pending';index"`
	CreatedAt    time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// HasLocation is true when both coordinates were captured.
func (b *MaintenanceBooking) HasLocation() bool {
	return b.Latitude != nil && b.Longitude != nil
}
