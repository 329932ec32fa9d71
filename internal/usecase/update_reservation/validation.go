package update_reservation

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Actor.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	if req.Date == nil && req.Time == nil && req.GuestCount == nil && req.SpecialRequests == nil {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if req.Date != nil && req.Date.IsZero() {
		return fmt.Errorf("%w: date must not be empty", ErrInvalidInput)
	}

	if req.Time != nil && req.Time.IsZero() {
		return fmt.Errorf("%w: time must not be empty", ErrInvalidInput)
	}

	if req.SpecialRequests != nil && utf8.RuneCountInString(*req.SpecialRequests) > domain.MaxSpecialRequestsLength {
		return fmt.Errorf("%w: special requests must not exceed %d characters", ErrInvalidInput, domain.MaxSpecialRequestsLength)
	}

	return nil
}

// apply возвращает копию бронирования с примененными изменениями
func apply(res *domain.Reservation, req *Request) *domain.Reservation {
	updated := *res
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.Time != nil {
		updated.Time = *req.Time
	}
	if req.GuestCount != nil {
		updated.GuestCount = *req.GuestCount
	}
	if req.SpecialRequests != nil {
		updated.SpecialRequests = *req.SpecialRequests
	}
	return &updated
}
