package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	restaurantRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/restaurant"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// Service сервис чтения бронирований
type Service struct {
	reservationRepo ReservationRepository
	restaurantRepo  RestaurantRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	restaurantRepo RestaurantRepository,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		restaurantRepo:  restaurantRepo,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Доступно клиенту бронирования, владельцу ресторана и администратору
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, actor.UserID)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkReservationAccess(ctx, res, actor); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", actor.UserID, id)
		return nil, err
	}

	return models.FromDomainReservation(res), nil
}

// GetCustomerReservations получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerReservations(ctx context.Context, req *models.GetCustomerReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetCustomerReservations: fetching reservations for user=%d, status=%v", req.Actor.UserID, req.Status)

	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerReservations: invalid status=%s for user=%d", *req.Status, req.Actor.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	list, err := s.reservationRepo.ListByCustomer(ctx, req.Actor.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerReservations: repository error for user=%d: %v", req.Actor.UserID, err)
		return nil, fmt.Errorf("%w: GetCustomerReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerReservations: fetched %d reservations for user=%d", len(list), req.Actor.UserID)
	return models.FromDomainReservationList(list), nil
}

// GetRestaurantReservations получает бронирования ресторана с фильтрацией по периоду и статусу
// Доступно владельцу ресторана и администратору
func (s *Service) GetRestaurantReservations(ctx context.Context, req *models.GetRestaurantReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetRestaurantReservations: restaurant=%d, user=%d, includeInactive=%t",
		req.RestaurantID, req.Actor.UserID, req.IncludeInactive)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetRestaurantReservations: invalid filter for restaurant=%d: %v", req.RestaurantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	restaurant, err := s.getRestaurant(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}

	if !req.Actor.IsAdmin() && !req.Actor.IsOwnerOf(restaurant) {
		s.logger.Warn("GetRestaurantReservations: user=%d is not the owner of restaurant=%d", req.Actor.UserID, req.RestaurantID)
		return nil, ErrAccessDenied
	}

	list, err := s.reservationRepo.ListByRestaurant(ctx, filter)
	if err != nil {
		s.logger.Error("GetRestaurantReservations: repository error for restaurant=%d: %v", req.RestaurantID, err)
		return nil, fmt.Errorf("%w: GetRestaurantReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetRestaurantReservations: fetched %d reservations for restaurant=%d", len(list), req.RestaurantID)
	return models.FromDomainReservationList(list), nil
}

// Вспомогательные методы

// checkReservationAccess проверяет, что актор может видеть бронирование
func (s *Service) checkReservationAccess(ctx context.Context, res *domain.Reservation, actor domain.Actor) error {
	if actor.IsCustomerOf(res) || actor.IsAdmin() {
		return nil
	}
	if actor.Role != domain.RoleOwner {
		return ErrAccessDenied
	}

	table, err := s.restaurantRepo.GetTable(ctx, res.TableID)
	if err != nil {
		if errors.Is(err, restaurantRepo.ErrTableNotFound) {
			return ErrAccessDenied
		}
		s.logger.Error("checkReservationAccess: failed to get table id=%d: %v", res.TableID, err)
		return fmt.Errorf("%w: checkReservationAccess - failed to get table: %v", ErrInternal, err)
	}

	restaurant, err := s.getRestaurant(ctx, table.RestaurantID)
	if err != nil {
		if errors.Is(err, ErrRestaurantNotFound) {
			return ErrAccessDenied
		}
		return err
	}

	if !actor.IsOwnerOf(restaurant) {
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) getRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetRestaurant(ctx, id)
	if err != nil {
		if errors.Is(err, restaurantRepo.ErrRestaurantNotFound) {
			s.logger.Warn("getRestaurant: restaurant id=%d not found", id)
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("getRestaurant: failed to get restaurant id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getRestaurant - repository error: %v", ErrInternal, err)
	}
	return restaurant, nil
}
