package get_available_times

import "errors"

var (
	// ErrTableNotFound возвращается, когда стол (или его ресторан) не найден
	ErrTableNotFound = errors.New("get_available_times: table not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_times: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_times: internal error")
)
