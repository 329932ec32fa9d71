package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
	StatusNoShow    ReservationStatus = "no_show"
)

// IsValid returns true if the status is one of the known statuses
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal returns true if no transition may leave this status
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

// DepositStatus represents the state of the reservation deposit
type DepositStatus string

const (
	DepositPending           DepositStatus = "pending"
	DepositPaid              DepositStatus = "paid"
	DepositRefunded          DepositStatus = "refunded"
	DepositPartiallyRefunded DepositStatus = "partially_refunded"
)

// Reservation represents a table booking made by a customer
type Reservation struct {
	ID              int64
	CustomerID      int64
	TableID         int64
	Date            time.Time
	Time            types.TimeString
	GuestCount      int
	SpecialRequests string
	Status          ReservationStatus

	DepositAmount    *float64
	DepositStatus    DepositStatus
	ArrivalConfirmed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation blocks its table window
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// Window returns the booking window the reservation occupies
func (r *Reservation) Window() (Window, error) {
	return NewWindow(r.Date, r.Time)
}

// Slot returns the (table, date, time) triple of the reservation
func (r *Reservation) Slot() Slot {
	return Slot{TableID: r.TableID, Date: r.Date, Time: r.Time}
}

// Slot is a (table, date, time) triple of a candidate or existing booking
type Slot struct {
	TableID int64
	Date    time.Time
	Time    types.TimeString
}

// SlotLockKey is the mutual exclusion key for booking a table on a date
func SlotLockKey(tableID int64, date time.Time) string {
	return fmt.Sprintf("%d:%s", tableID, date.Format(DateFormat))
}

// RestaurantReservationsFilter filters reservations of a restaurant
type RestaurantReservationsFilter struct {
	RestaurantID    int64              // required
	StartDate       *time.Time         // optional, inclusive
	EndDate         *time.Time         // optional, inclusive
	Status          *ReservationStatus // optional
	IncludeInactive bool               // include cancelled/completed/no_show
}

// DepositFor computes the flat per-guest deposit
func DepositFor(guestCount int, perGuest float64) float64 {
	return float64(guestCount) * perGuest
}
