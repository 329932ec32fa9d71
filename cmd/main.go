package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	checkAvailabilityHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/check_availability"
	confirmArrivalHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/confirm_arrival"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	getAvailableTimesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_available_times"
	getCustomerReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_customer_reservations"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	getRestaurantReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_restaurant_reservations"
	updateReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_reservation"
	updateStatusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_reservation_status"
	"github.com/m04kA/SMC-ReservationService/internal/api/router"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/cache"
	"github.com/m04kA/SMC-ReservationService/internal/infra/migrations"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	restaurantRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/restaurant"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/events"
	"github.com/m04kA/SMC-ReservationService/internal/service/conflicts"
	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	"github.com/m04kA/SMC-ReservationService/internal/service/validation"
	checkAvailabilityUC "github.com/m04kA/SMC-ReservationService/internal/usecase/check_availability"
	createReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	getAvailableTimesUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_times"
	updateReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReservationStore общий контракт Postgres-репозитория и in-memory хранилища
type ReservationStore interface {
	LockSlot(ctx context.Context, tableID int64, date time.Time) error
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListActiveByTableAndDate(ctx context.Context, tableID int64, date time.Time, excludeID *int64) ([]*domain.Reservation, error)
	ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	ListByRestaurant(ctx context.Context, filter domain.RestaurantReservationsFilter) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) error
	UpdateSlot(ctx context.Context, res *domain.Reservation) error
	SetArrivalConfirmed(ctx context.Context, id int64) error
}

// RestaurantStore источник ресторанов и столов
type RestaurantStore interface {
	GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error)
	GetTable(ctx context.Context, id int64) (*domain.Table, error)
}

// TxManager менеджер транзакций (Postgres или in-memory)
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикатор событий (RabbitMQ или no-op)
type EventPublisher interface {
	PublishCreated(ctx context.Context, res *domain.Reservation) error
	PublishStatusChanged(ctx context.Context, res *domain.Reservation, from domain.ReservationStatus, actor domain.Actor) error
	Close() error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from config.toml (storage=%s)", cfg.Storage.Driver)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	var (
		reservationStore ReservationStore
		restaurantStore  RestaurantStore
		txMgr            TxManager
	)

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		if err := seedMemoryStore(store, cfg.Storage); err != nil {
			log.Fatal("Failed to seed memory store: %v", err)
		}
		reservationStore = store
		restaurantStore = store
		txMgr = memory.NewTxManager(store)
		log.Info("Using in-memory storage (%d restaurants, %d tables)",
			len(cfg.Storage.Restaurants), len(cfg.Storage.Tables))

	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if cfg.Database.MigrateOnStart {
			version, err := migrations.Up(db)
			if err != nil {
				log.Fatal("Failed to apply migrations: %v", err)
			}
			log.Info("Database schema at version %d", version)
		}

		// Обертка считает метрики запросов; при выключенных метриках работает как прокси
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		reservationStore = reservationRepo.NewRepository(wrappedDB)
		restaurantStore = restaurantRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	}

	// Кэш ресторанов и столов в Redis (если включен и доступен)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()

		if err != nil {
			log.Warn("Redis unavailable at %s, cache disabled: %v", cfg.Redis.Addr, err)
			_ = rdb.Close()
		} else {
			defer rdb.Close()
			restaurantStore = cache.NewRestaurantCache(restaurantStore, rdb, time.Duration(cfg.Redis.TTL)*time.Second, log)
			log.Info("Restaurant cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
		}
	}

	// События бронирований
	var publisher EventPublisher = events.NewNoop()
	if cfg.RabbitMQ.Enabled {
		publisher = events.NewPublisher(events.Config{
			URL:            cfg.RabbitMQ.URL,
			PublishTimeout: time.Duration(cfg.RabbitMQ.PublishTimeout) * time.Second,
		}, log)
		log.Info("RabbitMQ events enabled")
	}
	defer publisher.Close()

	// Инициализируем сервисы
	validator := validation.NewValidator(conflicts.NewDetector(reservationStore), log)
	readSvc := reservationsService.NewService(reservationStore, restaurantStore, log)
	lifecycleManager := lifecycle.NewManager(reservationStore, restaurantStore, txMgr, publisher, metricsCollector, log)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationStore,
		restaurantStore,
		validator,
		txMgr,
		publisher,
		metricsCollector,
		log,
		cfg.Booking.DepositPerGuest,
	)
	updateReservationUseCase := updateReservationUC.NewUseCase(
		reservationStore,
		restaurantStore,
		validator,
		txMgr,
		log,
		cfg.Booking.DepositPerGuest,
	)
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(restaurantStore, validator, log)
	getAvailableTimesUseCase := getAvailableTimesUC.NewUseCase(reservationStore, restaurantStore, log)

	// Инициализируем handlers и роутер
	r := router.New(router.Handlers{
		CheckAvailability:         checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log),
		GetAvailableTimes:         getAvailableTimesHandler.NewHandler(getAvailableTimesUseCase, log),
		CreateReservation:         createReservationHandler.NewHandler(createReservationUseCase, log),
		GetReservation:            getReservationHandler.NewHandler(readSvc, log),
		UpdateReservation:         updateReservationHandler.NewHandler(updateReservationUseCase, log),
		UpdateStatus:              updateStatusHandler.NewHandler(lifecycleManager, log),
		ConfirmArrival:            confirmArrivalHandler.NewHandler(lifecycleManager, log),
		GetCustomerReservations:   getCustomerReservationsHandler.NewHandler(readSvc, log),
		GetRestaurantReservations: getRestaurantReservationsHandler.NewHandler(readSvc, log),
	}, router.Options{
		JWTSecret:   cfg.Auth.JWTSecret,
		Metrics:     metricsCollector,
		MetricsPath: cfg.Metrics.Path,
		Logger:      log,
	})

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// seedMemoryStore заполняет in-memory хранилище ресторанами и столами из конфигурации.
// Согласованность данных (часы работы, ссылки на рестораны, номера столов) проверяет config.Validate
func seedMemoryStore(store *memory.Store, cfg config.StorageConfig) error {
	for _, r := range cfg.Restaurants {
		opening, err := types.NewTimeStringFromString(r.OpeningTime)
		if err != nil {
			return fmt.Errorf("restaurant %d: opening_time: %w", r.ID, err)
		}
		closing, err := types.NewTimeStringFromString(r.ClosingTime)
		if err != nil {
			return fmt.Errorf("restaurant %d: closing_time: %w", r.ID, err)
		}

		store.AddRestaurant(domain.Restaurant{
			ID:          r.ID,
			OwnerID:     r.OwnerID,
			Name:        r.Name,
			OpeningTime: opening,
			ClosingTime: closing,
			IsActive:    !r.Inactive,
		})
	}

	for _, t := range cfg.Tables {
		store.AddTable(domain.Table{
			ID:           t.ID,
			RestaurantID: t.RestaurantID,
			TableNumber:  t.TableNumber,
			Capacity:     t.Capacity,
			IsActive:     !t.Inactive,
		})
	}

	return nil
}
