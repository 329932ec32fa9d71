package conflicts

import "errors"

var (
	// ErrInvalidTime возвращается, если время кандидата не разбирается
	ErrInvalidTime = errors.New("conflicts: invalid candidate time")

	// ErrInternal возвращается при ошибке чтения бронирований
	ErrInternal = errors.New("conflicts: internal error")
)
