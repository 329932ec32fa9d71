package events

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Noop публикатор для отключенного брокера
type Noop struct{}

// NewNoop создает публикатор, который ничего не отправляет
func NewNoop() *Noop {
	return &Noop{}
}

func (Noop) PublishCreated(context.Context, *domain.Reservation) error {
	return nil
}

func (Noop) PublishStatusChanged(context.Context, *domain.Reservation, domain.ReservationStatus, domain.Actor) error {
	return nil
}

func (Noop) Close() error {
	return nil
}
