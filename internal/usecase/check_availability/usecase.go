package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	restaurantRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/restaurant"
	"github.com/m04kA/SMC-ReservationService/internal/service/validation"
)

// UseCase use case проверки, свободно ли двухчасовое окно на столе
type UseCase struct {
	restaurantRepo RestaurantRepository
	validator      Validator
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(restaurantRepo RestaurantRepository, validator Validator, logger Logger) *UseCase {
	return &UseCase{
		restaurantRepo: restaurantRepo,
		validator:      validator,
		logger:         logger,
	}
}

// Execute ничего не пишет в хранилище. Нарушения правил возвращаются в ответе, а не ошибкой.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: table=%d, date=%s, time=%s",
		req.TableID, req.Date.Format(domain.DateFormat), req.Time)

	if req.TableID <= 0 {
		return nil, fmt.Errorf("%w: tableID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.Time.IsZero() {
		return nil, fmt.Errorf("%w: time is required", ErrInvalidInput)
	}

	table, err := uc.restaurantRepo.GetTable(ctx, req.TableID)
	if err != nil {
		if errors.Is(err, restaurantRepo.ErrTableNotFound) {
			return nil, ErrTableNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get table id=%d: %v", req.TableID, err)
		return nil, fmt.Errorf("%w: failed to get table: %v", ErrInternal, err)
	}

	restaurant, err := uc.restaurantRepo.GetRestaurant(ctx, table.RestaurantID)
	if err != nil {
		if errors.Is(err, restaurantRepo.ErrRestaurantNotFound) {
			return nil, ErrTableNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get restaurant id=%d: %v", table.RestaurantID, err)
		return nil, fmt.Errorf("%w: failed to get restaurant: %v", ErrInternal, err)
	}
	if !restaurant.IsActive {
		return nil, ErrTableNotFound
	}

	resp := &Response{
		TableID: table.ID,
		Date:    req.Date,
		Time:    req.Time,
	}
	if end, err := req.Time.AddMinutes(int(domain.BookingWindowDuration.Minutes())); err == nil {
		resp.EndTime = end
	}

	err = uc.validator.ValidateSlot(ctx, validation.Input{
		Table:      table,
		Restaurant: restaurant,
		Date:       req.Date,
		Time:       req.Time,
	})
	if err != nil {
		vErr, ok := validation.AsValidationError(err)
		if !ok {
			uc.logger.Error("CheckAvailability: validation failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		resp.Errors = vErr
		return resp, nil
	}

	resp.Available = true
	return resp, nil
}
