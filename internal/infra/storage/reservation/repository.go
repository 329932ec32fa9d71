package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// uniqueViolation код ошибки Postgres для нарушения уникального индекса
const uniqueViolation = "23505"

var columns = []string{
	"r.id",
	"r.customer_id",
	"r.table_id",
	"r.reservation_date",
	"r.reservation_time",
	"r.guest_count",
	"r.special_requests",
	"r.status",
	"r.deposit_amount",
	"r.deposit_status",
	"r.arrival_confirmed",
	"r.created_at",
	"r.updated_at",
}

// Repository репозиторий для работы с бронированиями столов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockSlot берет транзакционную advisory-блокировку на пару (table_id, date).
// Блокировка снимается при commit/rollback, поэтому вызывать только внутри транзакции.
// Все проверки конфликтов и вставки для одного стола и даты выполняются строго по очереди.
func (r *Repository) LockSlot(ctx context.Context, tableID int64, date time.Time) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey(tableID, date)); err != nil {
		return fmt.Errorf("%w: LockSlot - table=%d date=%s: %v", ErrLock, tableID, date.Format(domain.DateFormat), err)
	}

	return nil
}

// Create создает новое бронирование
// Частичный уникальный индекс по (table_id, reservation_date, reservation_time) для активных
// бронирований страхует от дублей одного и того же слота
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"customer_id",
			"table_id",
			"reservation_date",
			"reservation_time",
			"guest_count",
			"special_requests",
			"status",
			"deposit_amount",
			"deposit_status",
			"arrival_confirmed",
		).
		Values(
			res.CustomerID,
			res.TableID,
			res.Date.Format(domain.DateFormat),
			res.Time,
			res.GuestCount,
			res.SpecialRequests,
			res.Status,
			res.DepositAmount,
			res.DepositStatus,
			res.ArrivalConfirmed,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("reservations r").
		Where(squirrel.Eq{"r.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// ListActiveByTableAndDate получает активные (pending/confirmed) бронирования стола на дату.
// excludeID исключает одно бронирование (при переносе самого себя).
// Внутри транзакции строки блокируются через FOR UPDATE.
func (r *Repository) ListActiveByTableAndDate(
	ctx context.Context,
	tableID int64,
	date time.Time,
	excludeID *int64,
) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("reservations r").
		Where(squirrel.Eq{
			"r.table_id":         tableID,
			"r.reservation_date": date.Format(domain.DateFormat),
			"r.status":           statusStrings(domain.ActiveStatuses),
		}).
		OrderBy("r.reservation_time ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"r.id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByTableAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByTableAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListByCustomer получает бронирования клиента, опционально фильтруя по статусу
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("reservations r").
		Where(squirrel.Eq{"r.customer_id": customerID}).
		OrderBy("r.reservation_date DESC", "r.reservation_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListByRestaurant получает бронирования всех столов ресторана с фильтрацией
// по периоду, статусу и включению неактивных бронирований
func (r *Repository) ListByRestaurant(ctx context.Context, filter domain.RestaurantReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("reservations r").
		Join("restaurant_tables t ON t.id = r.table_id").
		Where(squirrel.Eq{"t.restaurant_id": filter.RestaurantID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"r.reservation_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"r.reservation_date": filter.EndDate.Format(domain.DateFormat)})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.status": statusStrings(domain.ActiveStatuses)})
	}

	selectBuilder = selectBuilder.OrderBy("r.reservation_date DESC", "r.reservation_time DESC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRestaurant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRestaurant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// UpdateStatus меняет статус только если текущий статус равен from (compare-and-set)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", id, query, args)
}

// UpdateSlot переносит активное бронирование на новые дату/время/количество гостей
func (r *Repository) UpdateSlot(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("reservation_date", res.Date.Format(domain.DateFormat)).
		Set("reservation_time", res.Time).
		Set("guest_count", res.GuestCount).
		Set("special_requests", res.SpecialRequests).
		Set("deposit_amount", res.DepositAmount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID, "status": statusStrings(domain.ActiveStatuses)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSlot - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("%w: UpdateSlot - execute update: %v", ErrExecQuery, err)
	}

	return r.checkAffected(ctx, executor, "UpdateSlot", res.ID, result)
}

// SetArrivalConfirmed отмечает прибытие гостей по подтвержденному бронированию
func (r *Repository) SetArrivalConfirmed(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("arrival_confirmed", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetArrivalConfirmed - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "SetArrivalConfirmed", id, query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op string, id int64, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}
	return r.checkAffected(ctx, executor, op, id, result)
}

// checkAffected различает "нет такой записи" и "запись есть, но условие по статусу не выполнено"
func (r *Repository) checkAffected(ctx context.Context, executor DBExecutor, op string, id int64, result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM reservations WHERE id = $1)", id).Scan(&exists); err != nil {
		return fmt.Errorf("%w: %s - check existence: %v", ErrScanRow, op, err)
	}
	if !exists {
		return ErrReservationNotFound
	}
	return ErrStatusChanged
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var deposit sql.NullFloat64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.CustomerID,
		&res.TableID,
		&res.Date,
		&res.Time,
		&res.GuestCount,
		&res.SpecialRequests,
		&res.Status,
		&deposit,
		&res.DepositStatus,
		&res.ArrivalConfirmed,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deposit.Valid {
		amount := deposit.Float64
		res.DepositAmount = &amount
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// lockKey сворачивает (table_id, date) в bigint ключ для pg_advisory_xact_lock
func lockKey(tableID int64, date time.Time) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(domain.SlotLockKey(tableID, date)))
	return int64(h.Sum64())
}
