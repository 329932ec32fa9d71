package update_reservation_status

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type LifecycleManager interface {
	Transition(ctx context.Context, id int64, target domain.ReservationStatus, actor domain.Actor) (*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
