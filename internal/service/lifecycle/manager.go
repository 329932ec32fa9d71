// Package lifecycle moves reservations between statuses on behalf of an actor.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	restaurantRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/restaurant"
)

// Manager менеджер жизненного цикла бронирований
type Manager struct {
	reservationRepo ReservationRepository
	restaurantRepo  RestaurantRepository
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	logger          Logger
}

// NewManager создает новый экземпляр менеджера
func NewManager(
	reservationRepo ReservationRepository,
	restaurantRepo RestaurantRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Manager {
	return &Manager{
		reservationRepo: reservationRepo,
		restaurantRepo:  restaurantRepo,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		logger:          logger,
	}
}

// Confirm pending -> confirmed (владелец)
func (m *Manager) Confirm(ctx context.Context, id int64, actor domain.Actor) (*domain.Reservation, error) {
	return m.Transition(ctx, id, domain.StatusConfirmed, actor)
}

// Cancel pending|confirmed -> cancelled (клиент или владелец)
func (m *Manager) Cancel(ctx context.Context, id int64, actor domain.Actor) (*domain.Reservation, error) {
	return m.Transition(ctx, id, domain.StatusCancelled, actor)
}

// Complete confirmed -> completed (владелец)
func (m *Manager) Complete(ctx context.Context, id int64, actor domain.Actor) (*domain.Reservation, error) {
	return m.Transition(ctx, id, domain.StatusCompleted, actor)
}

// MarkNoShow confirmed -> no_show (владелец)
func (m *Manager) MarkNoShow(ctx context.Context, id int64, actor domain.Actor) (*domain.Reservation, error) {
	return m.Transition(ctx, id, domain.StatusNoShow, actor)
}

// Transition moves the reservation to target. Authorization is checked before
// the edge itself, and the write only succeeds if the status is still the one read.
func (m *Manager) Transition(
	ctx context.Context,
	id int64,
	target domain.ReservationStatus,
	actor domain.Actor,
) (*domain.Reservation, error) {
	m.logger.Info("Transition: reservation=%d target=%s actor=%d role=%s", id, target, actor.UserID, actor.Role)

	if !target.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, target)
	}

	var (
		result *domain.Reservation
		from   domain.ReservationStatus
	)

	err := m.txManager.Do(ctx, func(txCtx context.Context) error {
		res, restaurant, err := m.load(txCtx, id)
		if err != nil {
			return err
		}
		from = res.Status

		if err := authorize(res.Status, target, parties(actor, res, restaurant)); err != nil {
			m.logger.Warn("Transition: reservation=%d %s -> %s rejected for actor=%d: %v",
				id, res.Status, target, actor.UserID, err)
			return err
		}

		if err := m.reservationRepo.UpdateStatus(txCtx, id, res.Status, target); err != nil {
			return m.mapWriteError("Transition", id, err)
		}

		res.Status = target
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.metrics.IncStatusTransition(string(from), string(target))
	if err := m.publisher.PublishStatusChanged(ctx, result, from, actor); err != nil {
		m.logger.Error("Transition: failed to publish status change for reservation=%d: %v", id, err)
	}

	m.logger.Info("Transition: reservation=%d %s -> %s", id, from, target)
	return result, nil
}

// ConfirmArrival отмечает прибытие гостей по подтвержденному бронированию (только владелец)
func (m *Manager) ConfirmArrival(ctx context.Context, id int64, actor domain.Actor) (*domain.Reservation, error) {
	m.logger.Info("ConfirmArrival: reservation=%d actor=%d", id, actor.UserID)

	var result *domain.Reservation

	err := m.txManager.Do(ctx, func(txCtx context.Context) error {
		res, restaurant, err := m.load(txCtx, id)
		if err != nil {
			return err
		}

		if !parties(actor, res, restaurant)[partyOwner] {
			m.logger.Warn("ConfirmArrival: actor=%d is not the owner for reservation=%d", actor.UserID, id)
			return ErrUnauthorized
		}

		if res.Status != domain.StatusConfirmed {
			return fmt.Errorf("%w: arrival requires a confirmed reservation, got %s", ErrInvalidTransition, res.Status)
		}

		if res.ArrivalConfirmed {
			result = res
			return nil
		}

		if err := m.reservationRepo.SetArrivalConfirmed(txCtx, id); err != nil {
			return m.mapWriteError("ConfirmArrival", id, err)
		}

		res.ArrivalConfirmed = true
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// load читает бронирование и ресторан его стола
func (m *Manager) load(ctx context.Context, id int64) (*domain.Reservation, *domain.Restaurant, error) {
	res, err := m.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			m.logger.Warn("load: reservation id=%d not found", id)
			return nil, nil, ErrReservationNotFound
		}
		m.logger.Error("load: failed to get reservation id=%d: %v", id, err)
		return nil, nil, fmt.Errorf("%w: get reservation: %v", ErrInternal, err)
	}

	table, err := m.restaurantRepo.GetTable(ctx, res.TableID)
	if err != nil {
		if errors.Is(err, restaurantRepo.ErrTableNotFound) {
			// без стола владельца определить нельзя, остается только клиент
			return res, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: get table id=%d: %v", ErrInternal, res.TableID, err)
	}

	restaurant, err := m.restaurantRepo.GetRestaurant(ctx, table.RestaurantID)
	if err != nil {
		if errors.Is(err, restaurantRepo.ErrRestaurantNotFound) {
			return res, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: get restaurant id=%d: %v", ErrInternal, table.RestaurantID, err)
	}

	return res, restaurant, nil
}

func (m *Manager) mapWriteError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, reservationRepo.ErrStatusChanged):
		m.logger.Warn("%s: reservation=%d changed concurrently", op, id)
		return fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
	case errors.Is(err, reservationRepo.ErrReservationNotFound):
		return ErrReservationNotFound
	default:
		m.logger.Error("%s: failed to update reservation=%d: %v", op, id, err)
		return fmt.Errorf("%w: update reservation: %v", ErrInternal, err)
	}
}
