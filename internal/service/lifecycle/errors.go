package lifecycle

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("lifecycle: reservation not found")

	// ErrUnauthorized возвращается, когда актор не может выполнить переход
	ErrUnauthorized = errors.New("lifecycle: actor is not allowed to change this reservation")

	// ErrInvalidTransition возвращается для запрещенного перехода или устаревшего статуса
	ErrInvalidTransition = errors.New("lifecycle: invalid status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("lifecycle: invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("lifecycle: internal error")
)
