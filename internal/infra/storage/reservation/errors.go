package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrSlotTaken возвращается при нарушении уникальности активного слота (table, date, time)
	ErrSlotTaken = errors.New("reservation.repository: slot already taken")

	// ErrStatusChanged возвращается, когда статус изменился между чтением и обновлением
	ErrStatusChanged = errors.New("reservation.repository: status changed concurrently")

	// ErrLock возвращается, если не удалось взять блокировку слота
	ErrLock = errors.New("reservation.repository: failed to acquire slot lock")

	// ErrNoTransaction возвращается, если блокировка запрошена вне транзакции
	ErrNoTransaction = errors.New("reservation.repository: slot lock requires a transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
