package get_available_times

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модель запроса на получение времени начала бронирований
type Request struct {
	TableID     int64     // ID стола
	Date        time.Time // Дата (без времени)
	StepMinutes int       // Шаг сетки; 0 - значение по умолчанию
}

// Response модель ответа со списком времени начала
type Response struct {
	TableID        int64
	Date           time.Time
	Times          []domain.AvailableTime
	AvailableCount int
}
