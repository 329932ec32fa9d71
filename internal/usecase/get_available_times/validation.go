package get_available_times

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса и подставляет шаг по умолчанию
func validateRequest(req *Request) error {
	if req.TableID <= 0 {
		return fmt.Errorf("%w: tableID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StepMinutes == 0 {
		req.StepMinutes = domain.DefaultSlotStepMinutes
	}

	if req.StepMinutes < domain.MinSlotStepMinutes || req.StepMinutes > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: step must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}

	return nil
}
