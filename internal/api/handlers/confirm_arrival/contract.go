package confirm_arrival

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type LifecycleManager interface {
	ConfirmArrival(ctx context.Context, id int64, actor domain.Actor) (*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
