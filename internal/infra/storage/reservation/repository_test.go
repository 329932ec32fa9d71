package reservation

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type execCall struct {
	query string
	args  []interface{}
}

// fakeTx записывает ExecContext и возвращает заданную ошибку
type fakeTx struct {
	calls   []execCall
	execErr error
}

func (f *fakeTx) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.calls = append(f.calls, execCall{query: query, args: args})
	if f.execErr != nil {
		return nil, f.execErr
	}
	return driverResult(1), nil
}

func (f *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error   { return nil }
func (f *fakeTx) Rollback() error { return nil }

type driverResult int64

func (r driverResult) LastInsertId() (int64, error) { return 0, nil }
func (r driverResult) RowsAffected() (int64, error) { return int64(r), nil }

var day = time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)

func TestRepository_LockSlot(t *testing.T) {
	tx := &fakeTx{}
	repo := NewRepository(tx)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	require.NoError(t, repo.LockSlot(ctx, 3, day))
	require.Len(t, tx.calls, 1)
	assert.Contains(t, tx.calls[0].query, "pg_advisory_xact_lock")
	assert.Equal(t, []interface{}{lockKey(3, day)}, tx.calls[0].args)
}

func TestRepository_LockSlot_RequiresTransaction(t *testing.T) {
	repo := NewRepository(&fakeTx{})

	err := repo.LockSlot(context.Background(), 3, day)
	assert.ErrorIs(t, err, ErrNoTransaction)
}

func TestRepository_LockSlot_ExecError(t *testing.T) {
	tx := &fakeTx{execErr: errors.New("canceling statement due to lock timeout")}
	repo := NewRepository(tx)

	err := repo.LockSlot(dbmetrics.WithTx(context.Background(), tx), 3, day)
	assert.ErrorIs(t, err, ErrLock)
}

func TestLockKey(t *testing.T) {
	assert.Equal(t, lockKey(3, day), lockKey(3, day))
	assert.NotEqual(t, lockKey(3, day), lockKey(4, day))
	assert.NotEqual(t, lockKey(3, day), lockKey(3, day.AddDate(0, 0, 1)))
}

func TestRepository_UpdateSlot_UniqueViolationIsSlotTaken(t *testing.T) {
	tx := &fakeTx{execErr: &pq.Error{Code: uniqueViolation, Constraint: "uq_reservations_active_slot"}}
	repo := NewRepository(tx)
	deposit := 40.0

	err := repo.UpdateSlot(dbmetrics.WithTx(context.Background(), tx), &domain.Reservation{
		ID:            1,
		TableID:       3,
		Date:          day,
		Time:          types.MustTimeString("19:00"),
		GuestCount:    2,
		DepositAmount: &deposit,
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestRepository_UpdateSlot_OtherErrors(t *testing.T) {
	tx := &fakeTx{execErr: &pq.Error{Code: "40001"}}
	repo := NewRepository(tx)

	err := repo.UpdateSlot(dbmetrics.WithTx(context.Background(), tx), &domain.Reservation{ID: 1, Date: day, Time: "19:00"})
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotTaken)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23514"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
}
