package update_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на перенос бронирования. Пустые поля не меняются.
type Request struct {
	Actor           domain.Actor
	ReservationID   int64
	Date            *time.Time
	Time            *types.TimeString
	GuestCount      *int
	SpecialRequests *string
}

// Response модель ответа с обновленным бронированием
type Response struct {
	Reservation *domain.Reservation
}
