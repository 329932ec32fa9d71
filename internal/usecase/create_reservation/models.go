package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor           domain.Actor     // Кто бронирует (становится клиентом)
	TableID         int64            // ID стола
	Date            time.Time        // Дата бронирования (без времени)
	Time            types.TimeString // Время начала, например "19:00"
	GuestCount      int              // Количество гостей
	SpecialRequests string           // Пожелания (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Reservation  *domain.Reservation
	RestaurantID int64
}
