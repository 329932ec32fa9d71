package get_available_times

import (
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	getAvailableTimes "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_times"
)

// AvailableTimesResponse HTTP response model
type AvailableTimesResponse struct {
	TableID        int64           `json:"tableId"`
	Date           string          `json:"date"`
	AvailableCount int             `json:"availableCount"`
	Times          []AvailableTime `json:"times"`
}

// AvailableTime время начала и признак доступности
type AvailableTime struct {
	StartTime string `json:"startTime"`
	Available bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableTimes.Response) *AvailableTimesResponse {
	times := make([]AvailableTime, len(resp.Times))
	for i, t := range resp.Times {
		times[i] = AvailableTime{
			StartTime: t.StartTime.String(),
			Available: t.Available,
		}
	}

	return &AvailableTimesResponse{
		TableID:        resp.TableID,
		Date:           resp.Date.Format(domain.DateFormat),
		AvailableCount: resp.AvailableCount,
		Times:          times,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(tableID int64, dateStr, stepStr string) (*getAvailableTimes.Request, error) {
	date, err := handlers.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	step := 0
	if stepStr != "" {
		step, err = strconv.Atoi(stepStr)
		if err != nil {
			return nil, err
		}
	}

	return &getAvailableTimes.Request{
		TableID:     tableID,
		Date:        date,
		StepMinutes: step,
	}, nil
}
