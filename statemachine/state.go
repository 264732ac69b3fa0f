package statemachine

import (
	"errors"
	"fmt"
	"strings"

	"solar-store/models"
)

var ErrInvalidTransition = errors.New("invalid transition")

// Transition defines a valid state change
type Transition[S ~string] struct {
	From S `json:"from"`
	To   S `json:"to"`
}

// Machine is an immutable transition table for one kind of status.
type Machine[S ~string] struct {
	name        string
	transitions []Transition[S]
	allowed     map[Transition[S]]bool
}

func New[S ~string](name string, transitions ...Transition[S]) *Machine[S] {
	m := &Machine[S]{
		name:        name,
		transitions: transitions,
		allowed:     make(map[Transition[S]]bool, len(transitions)),
	}
	for _, t := range transitions {
		m.allowed[t] = true
	}
	return m
}

// Orders is the staff-driven order workflow. Completed and Cancelled are terminal.
var Orders = New("order",
	Transition[models.OrderStatus]{From: models.OrderNew, To: models.OrderProcessing},
	Transition[models.OrderStatus]{From: models.OrderNew, To: models.OrderCancelled},
	Transition[models.OrderStatus]{From: models.OrderProcessing, To: models.OrderCompleted},
	Transition[models.OrderStatus]{From: models.OrderProcessing, To: models.OrderCancelled},
)

// Bookings is the maintenance visit workflow.
var Bookings = New("booking",
	Transition[models.BookingStatus]{From: models.BookingPending, To: models.BookingScheduled},
	Transition[models.BookingStatus]{From: models.BookingPending, To: models.BookingCompleted},
	Transition[models.BookingStatus]{From: models.BookingScheduled, To: models.BookingCompleted},
)

// CanTransition returns nil when from → to is allowed, otherwise an error wrapping
// ErrInvalidTransition.
func (m *Machine[S]) CanTransition(from, to S) error {
	if m.allowed[Transition[S]{From: from, To: to}] {
		return nil
	}
	return fmt.Errorf("%w: %s %s → %s is not allowed; valid transitions from %s are: %s",
		ErrInvalidTransition, m.name, from, to, from, m.describeValidFrom(from))
}

// ValidTransitionsFrom returns all valid next states from a given state
func (m *Machine[S]) ValidTransitionsFrom(status S) []S {
	var nexts []S
	seen := map[S]bool{}
	for _, t := range m.transitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal is true when nothing can follow status.
func (m *Machine[S]) IsTerminal(status S) bool {
	return len(m.ValidTransitionsFrom(status)) == 0
}

func (m *Machine[S]) Transitions() []Transition[S] {
	return m.transitions
}

func (m *Machine[S]) describeValidFrom(status S) string {
	nexts := m.ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
