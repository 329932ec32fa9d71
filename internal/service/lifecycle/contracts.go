package lifecycle

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) error
	SetArrivalConfirmed(ctx context.Context, id int64) error
}

// RestaurantRepository интерфейс репозитория ресторанов и столов
type RestaurantRepository interface {
	GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error)
	GetTable(ctx context.Context, id int64) (*domain.Table, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события смены статуса
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, res *domain.Reservation, from domain.ReservationStatus, actor domain.Actor) error
}

// Metrics счетчики переходов
type Metrics interface {
	IncStatusTransition(from, to string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
