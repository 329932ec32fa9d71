package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	checkAvailabilityHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/check_availability"
	confirmArrivalHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/confirm_arrival"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	getAvailableTimesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_available_times"
	getCustomerReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_customer_reservations"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	getRestaurantReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_restaurant_reservations"
	updateReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_reservation"
	updateStatusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_reservation_status"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
)

// Handlers все HTTP обработчики сервиса
type Handlers struct {
	CheckAvailability         *checkAvailabilityHandler.Handler
	GetAvailableTimes         *getAvailableTimesHandler.Handler
	CreateReservation         *createReservationHandler.Handler
	GetReservation            *getReservationHandler.Handler
	UpdateReservation         *updateReservationHandler.Handler
	UpdateStatus              *updateStatusHandler.Handler
	ConfirmArrival            *confirmArrivalHandler.Handler
	GetCustomerReservations   *getCustomerReservationsHandler.Handler
	GetRestaurantReservations *getRestaurantReservationsHandler.Handler
}

// Options настройки роутера
type Options struct {
	JWTSecret   string
	Metrics     *metrics.Metrics // nil - метрики выключены
	MetricsPath string
	Logger      middleware.Logger
}

// New собирает роутер: публичные маршруты доступности и защищенные JWT маршруты бронирований
func New(h Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))
		r.Handle(opts.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/tables/{tableId}/availability", h.CheckAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/tables/{tableId}/available-times", h.GetAvailableTimes.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(opts.JWTSecret, opts.Logger))

	// --- Бронирования ---
	protected.HandleFunc("/reservations", h.CreateReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", h.GetReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}", h.UpdateReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/status", h.UpdateStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/arrival", h.ConfirmArrival.Handle).Methods(http.MethodPatch)

	// --- Списки ---
	protected.HandleFunc("/users/me/reservations", h.GetCustomerReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/restaurants/{restaurantId}/reservations", h.GetRestaurantReservations.Handle).Methods(http.MethodGet)

	return r
}
