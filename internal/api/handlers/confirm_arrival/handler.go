package confirm_arrival

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgMissingUser          = "отсутствует пользователь"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "отметить приход может только владелец ресторана"
	msgNotConfirmed         = "отметить приход можно только для подтвержденного бронирования"
)

type Handler struct {
	manager LifecycleManager
	logger  Logger
}

func NewHandler(manager LifecycleManager, logger Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/arrival
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/arrival - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	reservation, err := h.manager.ConfirmArrival(r.Context(), reservationID, actor)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrReservationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, lifecycle.ErrUnauthorized):
			h.logger.Warn("PATCH /reservations/{id}/arrival - Forbidden: reservation_id=%d, user_id=%d", reservationID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, lifecycle.ErrInvalidTransition):
			handlers.RespondConflict(w, msgNotConfirmed)

		default:
			h.logger.Error("PATCH /reservations/{id}/arrival - Failed to confirm arrival: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/arrival - Arrival confirmed: reservation_id=%d", reservationID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(reservation))
}
