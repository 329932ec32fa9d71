package check_availability

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/validation"
)

// RestaurantRepository интерфейс репозитория ресторанов и столов
type RestaurantRepository interface {
	GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error)
	GetTable(ctx context.Context, id int64) (*domain.Table, error)
}

// Validator проверка окна без учета количества гостей
type Validator interface {
	ValidateSlot(ctx context.Context, in validation.Input) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
