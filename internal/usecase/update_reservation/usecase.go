package update_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	restaurantRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/restaurant"
	"github.com/m04kA/SMC-ReservationService/internal/service/validation"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// UseCase use case переноса бронирования (дата, время, количество гостей)
type UseCase struct {
	reservationRepo ReservationRepository
	restaurantRepo  RestaurantRepository
	validator       Validator
	txManager       TransactionManager
	logger          Logger
	depositPerGuest float64
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	restaurantRepo RestaurantRepository,
	validator Validator,
	txManager TransactionManager,
	logger Logger,
	depositPerGuest float64,
) *UseCase {
	if depositPerGuest <= 0 {
		depositPerGuest = domain.DefaultDepositPerGuest
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		restaurantRepo:  restaurantRepo,
		validator:       validator,
		txManager:       txManager,
		logger:          logger,
		depositPerGuest: depositPerGuest,
	}
}

// Execute переносит активное бронирование своего клиента.
// Проверка конфликтов исключает само переносимое бронирование.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateReservation: reservation=%d user=%d", req.ReservationID, req.Actor.UserID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Reservation

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("UpdateReservation: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("UpdateReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}

		if !req.Actor.IsCustomerOf(current) {
			uc.logger.Warn("UpdateReservation: user=%d is not the customer of reservation=%d", req.Actor.UserID, current.ID)
			return ErrAccessDenied
		}

		if !current.IsActive() {
			uc.logger.Warn("UpdateReservation: reservation=%d has status %s", current.ID, current.Status)
			return fmt.Errorf("%w: status %s", ErrNotActive, current.Status)
		}

		updated := apply(current, req)

		if err := uc.reservationRepo.LockSlot(txCtx, updated.TableID, updated.Date); err != nil {
			uc.logger.Error("UpdateReservation: failed to lock table=%d: %v", updated.TableID, err)
			return fmt.Errorf("%w: lock slot: %v", ErrInternal, err)
		}

		table, restaurant, err := uc.loadTable(txCtx, updated.TableID)
		if err != nil {
			return err
		}

		if err := uc.validator.Validate(txCtx, validation.Input{
			Table:                table,
			Restaurant:           restaurant,
			Date:                 updated.Date,
			Time:                 updated.Time,
			GuestCount:           updated.GuestCount,
			ExcludeReservationID: &updated.ID,
		}); err != nil {
			return err
		}

		deposit := domain.DepositFor(updated.GuestCount, uc.depositPerGuest)
		updated.DepositAmount = &deposit

		if err := uc.reservationRepo.UpdateSlot(txCtx, updated); err != nil {
			switch {
			case errors.Is(err, reservationRepo.ErrSlotTaken):
				return validation.NewConflictError()
			case errors.Is(err, reservationRepo.ErrStatusChanged):
				return ErrNotActive
			case errors.Is(err, reservationRepo.ErrReservationNotFound):
				return ErrReservationNotFound
			}
			uc.logger.Error("UpdateReservation: failed to update reservation id=%d: %v", updated.ID, err)
			return fmt.Errorf("%w: failed to update reservation: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})
	if err != nil {
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("UpdateReservation: serialization conflict for reservation=%d: %v", req.ReservationID, err)
			return nil, validation.NewConflictError()
		}
		return nil, err
	}

	uc.logger.Info("UpdateReservation: reservation id=%d moved to %s %s", result.ID, result.Date.Format(domain.DateFormat), result.Time)
	return &Response{Reservation: result}, nil
}

func (uc *UseCase) loadTable(ctx context.Context, tableID int64) (*domain.Table, *domain.Restaurant, error) {
	table, err := uc.restaurantRepo.GetTable(ctx, tableID)
	if err != nil {
		if errors.Is(err, restaurantRepo.ErrTableNotFound) {
			return nil, nil, ErrTableNotFound
		}
		return nil, nil, fmt.Errorf("%w: failed to get table: %v", ErrInternal, err)
	}

	restaurant, err := uc.restaurantRepo.GetRestaurant(ctx, table.RestaurantID)
	if err != nil {
		if errors.Is(err, restaurantRepo.ErrRestaurantNotFound) {
			return nil, nil, ErrTableNotFound
		}
		return nil, nil, fmt.Errorf("%w: failed to get restaurant: %v", ErrInternal, err)
	}

	if !restaurant.IsActive {
		return nil, nil, ErrTableNotFound
	}

	return table, restaurant, nil
}
