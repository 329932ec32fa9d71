package events

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Очереди событий
const (
	QueueReservationCreated       = "reservation.created"
	QueueReservationStatusChanged = "reservation.status_changed"
)

// ReservationCreatedEvent событие о новом бронировании
type ReservationCreatedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	CustomerID    int64     `json:"customer_id"`
	TableID       int64     `json:"table_id"`
	Date          string    `json:"reservation_date"`
	Time          string    `json:"reservation_time"`
	GuestCount    int       `json:"guest_count"`
	Status        string    `json:"status"`
	DepositAmount *float64  `json:"deposit_amount,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// StatusChangedEvent событие о смене статуса
type StatusChangedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	TableID       int64     `json:"table_id"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	ActorID       int64     `json:"actor_id"`
	ActorRole     string    `json:"actor_role"`
	ChangedAt     time.Time `json:"changed_at"`
}

func newCreatedEvent(res *domain.Reservation) ReservationCreatedEvent {
	return ReservationCreatedEvent{
		ReservationID: res.ID,
		CustomerID:    res.CustomerID,
		TableID:       res.TableID,
		Date:          res.Date.Format(domain.DateFormat),
		Time:          res.Time.String(),
		GuestCount:    res.GuestCount,
		Status:        string(res.Status),
		DepositAmount: res.DepositAmount,
		CreatedAt:     res.CreatedAt,
	}
}

func newStatusChangedEvent(res *domain.Reservation, from domain.ReservationStatus, actor domain.Actor, now time.Time) StatusChangedEvent {
	return StatusChangedEvent{
		ReservationID: res.ID,
		TableID:       res.TableID,
		From:          string(from),
		To:            string(res.Status),
		ActorID:       actor.UserID,
		ActorRole:     string(actor.Role),
		ChangedAt:     now.UTC(),
	}
}
