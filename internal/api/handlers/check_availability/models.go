package check_availability

import (
	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	checkAvailability "github.com/m04kA/SMC-ReservationService/internal/usecase/check_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	TableID        int64             `json:"tableId"`
	Date           string            `json:"date"`
	Time           string            `json:"time"`
	EndTime        string            `json:"endTime,omitempty"`
	Available      bool              `json:"available"`
	Errors         map[string]string `json:"errors,omitempty"`
	NonFieldErrors []string          `json:"nonFieldErrors,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		TableID:   resp.TableID,
		Date:      resp.Date.Format(domain.DateFormat),
		Time:      resp.Time.String(),
		EndTime:   resp.EndTime.String(),
		Available: resp.Available,
	}

	if resp.Errors != nil {
		body := handlers.NewValidationErrorResponse(resp.Errors)
		out.Errors = body.Errors
		out.NonFieldErrors = body.NonFieldErrors
	}

	return out
}
