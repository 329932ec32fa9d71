package get_restaurant_reservations

import (
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(restaurantID int64, actor domain.Actor, fromStr, toStr, statusStr, includeInactiveStr string) (*models.GetRestaurantReservationsRequest, error) {
	req := &models.GetRestaurantReservationsRequest{
		Actor:        actor,
		RestaurantID: restaurantID,
	}

	var err error
	if req.StartDate, err = handlers.ParseOptionalDate(fromStr); err != nil {
		return nil, err
	}
	if req.EndDate, err = handlers.ParseOptionalDate(toStr); err != nil {
		return nil, err
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeInactiveStr != "" {
		req.IncludeInactive, err = strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, err
		}
	}

	return req, nil
}
