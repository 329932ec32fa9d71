package get_available_times

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// generateStartTimes генерирует время начала с шагом step от открытия до закрытия включительно
func generateStartTimes(opening, closing types.TimeString, step int) []types.TimeString {
	times := make([]types.TimeString, 0)
	current := opening

	for !current.IsAfter(closing) {
		times = append(times, current)

		next, err := current.AddMinutes(step)
		if err != nil {
			// следующая отметка уже за полночью
			break
		}
		current = next
	}

	return times
}

// markAvailability отмечает время начала, окно которого не пересекается ни с одним активным бронированием.
// Те же правила, что у conflicts.Detector, но бронирования на дату читаются один раз на всю сетку
func markAvailability(date time.Time, starts []types.TimeString, existing []*domain.Reservation) ([]domain.AvailableTime, error) {
	windows, err := domain.ActiveWindows(existing, nil)
	if err != nil {
		return nil, err
	}

	result := make([]domain.AvailableTime, 0, len(starts))
	for _, start := range starts {
		candidate, err := domain.NewWindow(date, start)
		if err != nil {
			return nil, err
		}

		result = append(result, domain.AvailableTime{
			StartTime: start,
			Available: !candidate.OverlapsAny(windows),
		})
	}

	return result, nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
