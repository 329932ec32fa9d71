package get_available_times

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	getAvailableTimes "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_times"
)

const (
	msgInvalidTableID = "некорректный ID стола"
	msgMissingDate    = "дата обязательна"
	msgInvalidParams  = "некорректные параметры запроса, ожидается date=YYYY-MM-DD и step в минутах"
	msgTableNotFound  = "стол не найден"
)

type Handler struct {
	useCase GetAvailableTimesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableTimesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tables/{tableId}/available-times
// Query params: date (required, YYYY-MM-DD), step (опционально, минуты)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tableID, err := handlers.PathID(r, "tableId")
	if err != nil {
		h.logger.Warn("GET /tables/{id}/available-times - Invalid table ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTableID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /tables/{id}/available-times - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(tableID, dateStr, r.URL.Query().Get("step"))
	if err != nil {
		h.logger.Warn("GET /tables/{id}/available-times - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableTimes.ErrTableNotFound):
			h.logger.Warn("GET /tables/{id}/available-times - Table not found: table_id=%d", tableID)
			handlers.RespondNotFound(w, msgTableNotFound)

		case errors.Is(err, getAvailableTimes.ErrInvalidInput):
			h.logger.Warn("GET /tables/{id}/available-times - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /tables/{id}/available-times - Failed to get times: table_id=%d, error=%v", tableID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tables/{id}/available-times - Times retrieved successfully: table_id=%d, available=%d",
		tableID, result.AvailableCount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
