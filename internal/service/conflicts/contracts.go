package conflicts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListActiveByTableAndDate(ctx context.Context, tableID int64, date time.Time, excludeID *int64) ([]*domain.Reservation, error)
}
