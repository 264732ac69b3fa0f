package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"solar-store/models"
)

func TestOrders_CanTransition(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		ok       bool
	}{
		{models.OrderNew, models.OrderProcessing, true},
		{models.OrderNew, models.OrderCancelled, true},
		{models.OrderProcessing, models.OrderCompleted, true},
		{models.OrderProcessing, models.OrderCancelled, true},
		{models.OrderNew, models.OrderCompleted, false},
		{models.OrderCompleted, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderNew, false},
		{models.OrderProcessing, models.OrderNew, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := Orders.CanTransition(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestOrders_TerminalStates(t *testing.T) {
	assert.True(t, Orders.IsTerminal(models.OrderCompleted))
	assert.True(t, Orders.IsTerminal(models.OrderCancelled))
	assert.False(t, Orders.IsTerminal(models.OrderNew))

	err := Orders.CanTransition(models.OrderCompleted, models.OrderNew)
	assert.ErrorContains(t, err, "terminal state")
}

func TestBookings_ValidTransitionsFrom(t *testing.T) {
	assert.Equal(t,
		[]models.BookingStatus{models.BookingScheduled, models.BookingCompleted},
		Bookings.ValidTransitionsFrom(models.BookingPending))
	assert.Equal(t,
		[]models.BookingStatus{models.BookingCompleted},
		Bookings.ValidTransitionsFrom(models.BookingScheduled))
	assert.Empty(t, Bookings.ValidTransitionsFrom(models.BookingCompleted))
}
