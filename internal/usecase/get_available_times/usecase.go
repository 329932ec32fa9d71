package get_available_times

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	restaurantRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/restaurant"
)

// UseCase use case для получения сетки времени начала бронирований стола
type UseCase struct {
	reservationRepo ReservationRepository
	restaurantRepo  RestaurantRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	restaurantRepo RestaurantRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		restaurantRepo:  restaurantRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения времени начала
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableTimes: table=%d, date=%s, step=%d",
		req.TableID, req.Date.Format(domain.DateFormat), req.StepMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableTimes: validation failed: %v", err)
		return nil, err
	}

	// 2. Стол и ресторан
	table, err := uc.restaurantRepo.GetTable(ctx, req.TableID)
	if err != nil {
		if errors.Is(err, restaurantRepo.ErrTableNotFound) {
			uc.logger.Warn("GetAvailableTimes: table id=%d not found", req.TableID)
			return nil, ErrTableNotFound
		}
		uc.logger.Error("GetAvailableTimes: failed to get table id=%d: %v", req.TableID, err)
		return nil, fmt.Errorf("%w: failed to get table: %v", ErrInternal, err)
	}

	restaurant, err := uc.restaurantRepo.GetRestaurant(ctx, table.RestaurantID)
	if err != nil {
		if errors.Is(err, restaurantRepo.ErrRestaurantNotFound) {
			return nil, ErrTableNotFound
		}
		uc.logger.Error("GetAvailableTimes: failed to get restaurant id=%d: %v", table.RestaurantID, err)
		return nil, fmt.Errorf("%w: failed to get restaurant: %v", ErrInternal, err)
	}
	if !restaurant.IsActive {
		return nil, ErrTableNotFound
	}

	resp := &Response{
		TableID: table.ID,
		Date:    req.Date,
		Times:   []domain.AvailableTime{},
	}

	// 3. Прошедшая дата или неактивный стол - бронировать нечего
	if isDateInPast(req.Date, uc.timeProvider.Now()) || !table.IsActive {
		return resp, nil
	}

	// 4. Сетка времени от открытия до закрытия включительно
	starts := generateStartTimes(restaurant.OpeningTime, restaurant.ClosingTime, req.StepMinutes)

	// 5. Активные бронирования стола на дату
	existing, err := uc.reservationRepo.ListActiveByTableAndDate(ctx, table.ID, req.Date, nil)
	if err != nil {
		uc.logger.Error("GetAvailableTimes: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 6. Доступность каждого времени начала
	times, err := markAvailability(req.Date, starts, existing)
	if err != nil {
		uc.logger.Error("GetAvailableTimes: failed to compute availability: %v", err)
		return nil, fmt.Errorf("%w: failed to compute availability: %v", ErrInternal, err)
	}

	resp.Times = times
	resp.AvailableCount = domain.CountAvailable(times)

	uc.logger.Info("GetAvailableTimes: %d/%d start times available for table=%d",
		resp.AvailableCount, len(times), table.ID)

	return resp, nil
}
