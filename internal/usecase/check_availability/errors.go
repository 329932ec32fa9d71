package check_availability

import "errors"

var (
	// ErrTableNotFound стол не найден или ресторан неактивен
	ErrTableNotFound = errors.New("table not found")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("internal error")
)
