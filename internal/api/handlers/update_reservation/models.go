package update_reservation

import (
	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	updateReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// UpdateReservationRequest HTTP request model; отсутствующие поля не меняются
type UpdateReservationRequest struct {
	ReservationDate *string `json:"reservationDate,omitempty"`
	ReservationTime *string `json:"reservationTime,omitempty"`
	GuestCount      *int    `json:"guestCount,omitempty"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateReservationRequest) ToUseCaseRequest(reservationID int64, actor domain.Actor) (*updateReservation.Request, error) {
	req := &updateReservation.Request{
		Actor:           actor,
		ReservationID:   reservationID,
		GuestCount:      r.GuestCount,
		SpecialRequests: r.SpecialRequests,
	}

	if r.ReservationDate != nil {
		date, err := handlers.ParseDate(*r.ReservationDate)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if r.ReservationTime != nil {
		t, err := types.NewTimeStringFromString(*r.ReservationTime)
		if err != nil {
			t = types.TimeString(*r.ReservationTime)
		}
		req.Time = &t
	}

	return req, nil
}
