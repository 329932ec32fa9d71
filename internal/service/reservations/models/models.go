package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// GetCustomerReservationsRequest запрос на получение бронирований клиента
type GetCustomerReservationsRequest struct {
	Actor  domain.Actor
	Status *string
}

// GetRestaurantReservationsRequest запрос на получение бронирований ресторана
type GetRestaurantReservationsRequest struct {
	Actor           domain.Actor
	RestaurantID    int64
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	Status          *string    // Фильтр по статусу (опционально)
	IncludeInactive bool       // Включить отмененные и завершенные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetRestaurantReservationsRequest) ToDomainFilter() (domain.RestaurantReservationsFilter, error) {
	filter := domain.RestaurantReservationsFilter{
		RestaurantID:    r.RestaurantID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainReservationStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, errors.New("end date is before start date")
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID               int64     `json:"id"`
	CustomerID       int64     `json:"customerId"`
	TableID          int64     `json:"tableId"`
	ReservationDate  string    `json:"reservationDate"` // "2025-10-15"
	ReservationTime  string    `json:"reservationTime"` // "19:00"
	EndTime          string    `json:"endTime"`         // конец окна бронирования
	GuestCount       int       `json:"guestCount"`
	SpecialRequests  string    `json:"specialRequests,omitempty"`
	Status           string    `json:"status"`
	DepositAmount    *float64  `json:"depositAmount,omitempty"`
	DepositStatus    string    `json:"depositStatus"`
	ArrivalConfirmed bool      `json:"arrivalConfirmed"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:               r.ID,
		CustomerID:       r.CustomerID,
		TableID:          r.TableID,
		ReservationDate:  r.Date.Format(domain.DateFormat),
		ReservationTime:  r.Time.String(),
		GuestCount:       r.GuestCount,
		SpecialRequests:  r.SpecialRequests,
		Status:           string(r.Status),
		DepositAmount:    r.DepositAmount,
		DepositStatus:    string(r.DepositStatus),
		ArrivalConfirmed: r.ArrivalConfirmed,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}

	if window, err := r.Window(); err == nil {
		resp.EndTime = window.End.Format(domain.TimeFormat)
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(list []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(list)),
	}

	for _, r := range list {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}

	return resp
}

// ToDomainReservationStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
