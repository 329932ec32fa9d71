package update_reservation_status

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"` // confirmed | cancelled | completed | no_show
}

// ToDomainStatus проверяет, что статус известен
func (r *UpdateStatusRequest) ToDomainStatus() (domain.ReservationStatus, error) {
	return models.ToDomainReservationStatus(r.Status)
}
