package update_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/validation"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	LockSlot(ctx context.Context, tableID int64, date time.Time) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	UpdateSlot(ctx context.Context, res *domain.Reservation) error
}

// RestaurantRepository интерфейс репозитория ресторанов и столов
type RestaurantRepository interface {
	GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error)
	GetTable(ctx context.Context, id int64) (*domain.Table, error)
}

// Validator интерфейс валидатора бронирований
type Validator interface {
	Validate(ctx context.Context, in validation.Input) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
