package create_reservation

import "errors"

var (
	// ErrTableNotFound возвращается, когда стол (или его ресторан) не найден
	ErrTableNotFound = errors.New("create_reservation: table not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)

// Причины отказа для метрик
const (
	rejectConflict   = "conflict"
	rejectValidation = "validation"
)
