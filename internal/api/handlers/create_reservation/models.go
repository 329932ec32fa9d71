package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	TableID         int64  `json:"tableId"`
	ReservationDate string `json:"reservationDate"` // "2025-10-15"
	ReservationTime string `json:"reservationTime"` // "19:00"
	GuestCount      int    `json:"guestCount"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// CreateReservationResponse HTTP response model
type CreateReservationResponse struct {
	models.ReservationResponse
	RestaurantID int64 `json:"restaurantId"`
}

var (
	errBadDate = errors.New("bad date")
	errBadTime = errors.New("bad time")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(actor domain.Actor) (*createReservation.Request, error) {
	date, err := handlers.ParseDate(r.ReservationDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadDate, err)
	}

	// Время передается как есть: формат проверяет валидатор и отвечает сообщением по полю
	t, err := types.NewTimeStringFromString(r.ReservationTime)
	if err != nil {
		if r.ReservationTime == "" {
			return nil, fmt.Errorf("%w: %v", errBadTime, err)
		}
		t = types.TimeString(r.ReservationTime)
	}

	return &createReservation.Request{
		Actor:           actor,
		TableID:         r.TableID,
		Date:            date,
		Time:            t,
		GuestCount:      r.GuestCount,
		SpecialRequests: r.SpecialRequests,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *CreateReservationResponse {
	return &CreateReservationResponse{
		ReservationResponse: *models.FromDomainReservation(resp.Reservation),
		RestaurantID:        resp.RestaurantID,
	}
}
