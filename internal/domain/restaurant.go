package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Restaurant represents a venue with operating hours. OpeningTime < ClosingTime.
type Restaurant struct {
	ID          int64
	OwnerID     int64
	Name        string
	OpeningTime types.TimeString
	ClosingTime types.TimeString
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOpenAt returns true if t is within operating hours.
// Closing time itself is bookable.
func (r *Restaurant) IsOpenAt(t types.TimeString) bool {
	return !t.IsBefore(r.OpeningTime) && !t.IsAfter(r.ClosingTime)
}

// IsOwnedBy returns true if userID owns the restaurant
func (r *Restaurant) IsOwnedBy(userID int64) bool {
	return r.OwnerID == userID
}

// Table represents a bookable table of a restaurant.
// Unique per (RestaurantID, TableNumber).
type Table struct {
	ID           int64
	RestaurantID int64
	TableNumber  string
	Capacity     int
	Description  string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Fits returns true if guestCount is within 1..Capacity
func (t *Table) Fits(guestCount int) bool {
	return guestCount >= MinGuestCount && guestCount <= t.Capacity
}
