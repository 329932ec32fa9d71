package update_reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("update_reservation: reservation not found")

	// ErrAccessDenied возвращается, если бронирование переносит не его клиент
	ErrAccessDenied = errors.New("update_reservation: access denied")

	// ErrNotActive возвращается для отмененных и завершенных бронирований
	ErrNotActive = errors.New("update_reservation: reservation is not active")

	// ErrTableNotFound возвращается, когда стол (или его ресторан) не найден
	ErrTableNotFound = errors.New("update_reservation: table not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_reservation: internal error")
)
