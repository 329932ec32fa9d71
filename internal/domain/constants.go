package domain

import "time"

// BookingWindowDuration is how long a reservation is presumed to occupy a table
const BookingWindowDuration = 2 * time.Hour

// Business validation constants
const (
	MinGuestCount            = 1
	MaxGuestCount            = 20
	MaxSpecialRequestsLength = 1000
	DefaultDepositPerGuest   = 20.0
	DefaultSlotStepMinutes   = 30
	MinSlotStepMinutes       = 5
	MaxSlotStepMinutes       = 240
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses are the statuses that block a table window
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses never block new bookings
var InactiveStatuses = []ReservationStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}
