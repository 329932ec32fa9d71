package create_reservation

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

// UseCase use case для создания бронирования стола
type UseCase struct {
	reservationRepo ReservationRepository
	restaurantRepo  RestaurantRepository
	validator       Validator
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	logger          Logger
	depositPerGuest float64
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	restaurantRepo RestaurantRepository,
	validator Validator,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
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
		publisher:       publisher,
		metrics:         metrics,
		logger:          logger,
		depositPerGuest: depositPerGuest,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка и вставка идут в одной транзакции READ COMMITTED под блокировкой (table_id, date):
// каждый запрос после блокировки видит все зафиксированные до нее бронирования,
// поэтому из двух пересекающихся заявок на один стол проходит не более одной.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, table=%d, date=%s, time=%s, guests=%d",
		req.Actor.UserID, req.TableID, req.Date.Format(domain.DateFormat), req.Time, req.GuestCount)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	var (
		result       *domain.Reservation
		restaurantID int64
	)

	// 2. Проверка и вставка в транзакции под блокировкой слота
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Все попытки забронировать стол на эту дату выстраиваются в очередь
		if err := uc.reservationRepo.LockSlot(txCtx, req.TableID, req.Date); err != nil {
			uc.logger.Error("CreateReservation: failed to lock table=%d: %v", req.TableID, err)
			return fmt.Errorf("%w: lock slot: %v", ErrInternal, err)
		}

		// 2.2. Стол и ресторан
		table, restaurant, err := uc.loadTable(txCtx, req.TableID)
		if err != nil {
			return err
		}
		restaurantID = restaurant.ID

		// 2.3. Дата, вместимость, часы работы и пересечения окон
		if err := uc.validator.Validate(txCtx, validation.Input{
			Table:      table,
			Restaurant: restaurant,
			Date:       req.Date,
			Time:       req.Time,
			GuestCount: req.GuestCount,
		}); err != nil {
			return err
		}

		// 2.4. Сохраняем бронирование
		deposit := domain.DepositFor(req.GuestCount, uc.depositPerGuest)
		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			CustomerID:      req.Actor.UserID,
			TableID:         table.ID,
			Date:            req.Date,
			Time:            req.Time,
			GuestCount:      req.GuestCount,
			SpecialRequests: req.SpecialRequests,
			Status:          domain.StatusPending,
			DepositAmount:   &deposit,
			DepositStatus:   domain.DepositPending,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateReservation: slot taken on insert for table=%d", req.TableID)
				return validation.NewConflictError()
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("CreateReservation: serialization conflict for table=%d: %v", req.TableID, err)
			err = validation.NewConflictError()
		}
		uc.countRejection(err)
		return nil, err
	}

	uc.metrics.IncReservationCreated()
	if err := uc.publisher.PublishCreated(ctx, result); err != nil {
		uc.logger.Error("CreateReservation: failed to publish event for reservation id=%d: %v", result.ID, err)
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d", result.ID)

	return &Response{
		Reservation:  result,
		RestaurantID: restaurantID,
	}, nil
}

// loadTable получает стол и ресторан; неактивный ресторан считается отсутствующим
func (uc *UseCase) loadTable(ctx context.Context, tableID int64) (*domain.Table, *domain.Restaurant, error) {
	table, err := uc.restaurantRepo.GetTable(ctx, tableID)
	if err != nil {
		if errors.Is(err, restaurantRepo.ErrTableNotFound) {
			uc.logger.Warn("CreateReservation: table id=%d not found", tableID)
			return nil, nil, ErrTableNotFound
		}
		uc.logger.Error("CreateReservation: failed to get table id=%d: %v", tableID, err)
		return nil, nil, fmt.Errorf("%w: failed to get table: %v", ErrInternal, err)
	}

	restaurant, err := uc.restaurantRepo.GetRestaurant(ctx, table.RestaurantID)
	if err != nil {
		if errors.Is(err, restaurantRepo.ErrRestaurantNotFound) {
			uc.logger.Warn("CreateReservation: restaurant id=%d of table id=%d not found", table.RestaurantID, tableID)
			return nil, nil, ErrTableNotFound
		}
		uc.logger.Error("CreateReservation: failed to get restaurant id=%d: %v", table.RestaurantID, err)
		return nil, nil, fmt.Errorf("%w: failed to get restaurant: %v", ErrInternal, err)
	}

	if !restaurant.IsActive {
		uc.logger.Warn("CreateReservation: restaurant id=%d is inactive", restaurant.ID)
		return nil, nil, ErrTableNotFound
	}

	return table, restaurant, nil
}

func (uc *UseCase) countRejection(err error) {
	vErr, ok := validation.AsValidationError(err)
	if !ok {
		return
	}
	if vErr.IsConflictOnly() {
		uc.metrics.IncReservationRejected(rejectConflict)
		return
	}
	uc.metrics.IncReservationRejected(rejectValidation)
}
