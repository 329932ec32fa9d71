package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/internal/service/conflicts"
	"github.com/m04kA/SMC-ReservationService/internal/service/validation"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var (
	bookingDay = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	customer   = domain.Actor{UserID: 7, Role: domain.RoleCustomer}
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type recordingPublisher struct {
	mu      sync.Mutex
	created []int64
}

func (p *recordingPublisher) PublishCreated(_ context.Context, res *domain.Reservation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, res.ID)
	return nil
}

type fixture struct {
	store     *memory.Store
	uc        *UseCase
	publisher *recordingPublisher
	metrics   *metrics.Metrics
}

// Стол вместимостью 4, ресторан работает 11:00-22:00
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	store.AddRestaurant(domain.Restaurant{
		ID:          1,
		OwnerID:     100,
		OpeningTime: types.MustTimeString("11:00"),
		ClosingTime: types.MustTimeString("22:00"),
		IsActive:    true,
	})
	store.AddTable(domain.Table{ID: 1, RestaurantID: 1, TableNumber: "1", Capacity: 4, IsActive: true})

	log := logger.NewNop()
	validator := validation.NewValidator(conflicts.NewDetector(store), log).
		WithTimeProvider(fixedClock{now: bookingDay.Add(-24 * time.Hour)})

	pub := &recordingPublisher{}
	m := metrics.NewWithRegisterer("create_reservation_test", prometheus.NewRegistry())

	uc := NewUseCase(store, store, validator, memory.NewTxManager(store), pub, m, log, domain.DefaultDepositPerGuest)

	return &fixture{store: store, uc: uc, publisher: pub, metrics: m}
}

func request(at string, guests int) *Request {
	return &Request{
		Actor:      customer,
		TableID:    1,
		Date:       bookingDay,
		Time:       types.MustTimeString(at),
		GuestCount: guests,
	}
}

func TestCreateReservation_ABCScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.uc.Execute(ctx, request("19:00", 4))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, a.Reservation.Status)
	assert.Equal(t, int64(1), a.RestaurantID)

	_, err = f.uc.Execute(ctx, request("20:30", 2))
	require.Error(t, err)
	vErr, ok := validation.AsValidationError(err)
	require.True(t, ok)
	assert.True(t, vErr.IsConflictOnly())

	c, err := f.uc.Execute(ctx, request("21:00", 2))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, c.Reservation.Status)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.ReservationsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReservationsRejected.WithLabelValues(rejectConflict)))
	assert.Equal(t, []int64{a.Reservation.ID, c.Reservation.ID}, f.publisher.created)
}

func TestCreateReservation_Deposit(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), request("12:00", 3))
	require.NoError(t, err)

	require.NotNil(t, resp.Reservation.DepositAmount)
	assert.Equal(t, 60.0, *resp.Reservation.DepositAmount)
	assert.Equal(t, domain.DepositPending, resp.Reservation.DepositStatus)
	assert.Equal(t, customer.UserID, resp.Reservation.CustomerID)
}

func TestCreateReservation_CancelledSlotIsBookable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, request("19:00", 2))
	require.NoError(t, err)
	require.NoError(t, f.store.UpdateStatus(ctx, first.Reservation.ID, domain.StatusPending, domain.StatusCancelled))

	_, err = f.uc.Execute(ctx, request("19:00", 2))
	assert.NoError(t, err)
}

func TestCreateReservation_ValidationErrors(t *testing.T) {
	f := newFixture(t)

	req := request("23:00", 6)
	req.Date = bookingDay.AddDate(0, 0, -2)

	_, err := f.uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, validation.ErrValidation))

	vErr, ok := validation.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, validation.FieldDate)
	assert.Contains(t, vErr.Fields, validation.FieldGuestCount)
	assert.Contains(t, vErr.Fields, validation.FieldTime)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReservationsRejected.WithLabelValues(rejectValidation)))
	assert.Empty(t, f.publisher.created)

	list, err := f.store.ListActiveByTableAndDate(context.Background(), 1, bookingDay, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateReservation_TableNotFound(t *testing.T) {
	f := newFixture(t)
	req := request("19:00", 2)
	req.TableID = 42

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestCreateReservation_InactiveRestaurant(t *testing.T) {
	f := newFixture(t)
	f.store.AddRestaurant(domain.Restaurant{ID: 2, OwnerID: 100, OpeningTime: "11:00", ClosingTime: "22:00"})
	f.store.AddTable(domain.Table{ID: 2, RestaurantID: 2, TableNumber: "1", Capacity: 4, IsActive: true})

	req := request("19:00", 2)
	req.TableID = 2

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestCreateReservation_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{name: "no user", modify: func(r *Request) { r.Actor.UserID = 0 }},
		{name: "no table", modify: func(r *Request) { r.TableID = 0 }},
		{name: "no date", modify: func(r *Request) { r.Date = time.Time{} }},
		{name: "no time", modify: func(r *Request) { r.Time = "" }},
		{name: "long requests", modify: func(r *Request) {
			b := make([]rune, domain.MaxSpecialRequestsLength+1)
			for i := range b {
				b[i] = 'x'
			}
			r.SpecialRequests = string(b)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := request("19:00", 2)
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateReservation_ConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)

	starts := []string{"18:00", "18:30", "19:00", "19:30", "18:00", "19:00", "18:45", "19:15"}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  int
		rejected int
	)

	for _, at := range starts {
		wg.Add(1)
		go func(at string) {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), request(at, 2))

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
				return
			}
			if vErr, ok := validation.AsValidationError(err); ok && vErr.IsConflictOnly() {
				rejected++
			}
		}(at)
	}
	wg.Wait()

	// все окна попарно пересекаются, поэтому проходит ровно одна заявка
	assert.Equal(t, 1, winners)
	assert.Equal(t, len(starts)-1, rejected)

	list, err := f.store.ListActiveByTableAndDate(context.Background(), 1, bookingDay, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

type failingCreateRepo struct {
	*memory.Store
}

func (failingCreateRepo) Create(context.Context, *domain.Reservation) (*domain.Reservation, error) {
	return nil, errors.New("disk full")
}

func TestCreateReservation_StorageFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	log := logger.NewNop()
	validator := validation.NewValidator(conflicts.NewDetector(f.store), log).
		WithTimeProvider(fixedClock{now: bookingDay})

	uc := NewUseCase(failingCreateRepo{f.store}, f.store, validator, memory.NewTxManager(f.store), f.publisher, f.metrics, log, 0)

	_, err := uc.Execute(context.Background(), request("19:00", 2))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.publisher.created)

	list, err := f.store.ListActiveByTableAndDate(context.Background(), 1, bookingDay, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// serializationFailingTx выполняет fn, но коммит падает с SQLSTATE 40001,
// как у проигравшей конкурентной транзакции Postgres
type serializationFailingTx struct {
	inner *memory.TxManager
}

func (m serializationFailingTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.inner.Do(ctx, func(txCtx context.Context) error {
		if err := fn(txCtx); err != nil {
			return err
		}
		return fmt.Errorf("%w: pq: could not serialize access due to read/write dependencies among transactions", txmanager.ErrSerialization)
	})
}

func TestCreateReservation_SerializationFailureIsConflict(t *testing.T) {
	f := newFixture(t)
	log := logger.NewNop()
	validator := validation.NewValidator(conflicts.NewDetector(f.store), log).
		WithTimeProvider(fixedClock{now: bookingDay.Add(-24 * time.Hour)})

	uc := NewUseCase(f.store, f.store, validator, serializationFailingTx{memory.NewTxManager(f.store)}, f.publisher, f.metrics, log, 0)

	_, err := uc.Execute(context.Background(), request("20:30", 2))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInternal)

	vErr, ok := validation.AsValidationError(err)
	require.True(t, ok)
	assert.True(t, vErr.IsConflictOnly())

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReservationsRejected.WithLabelValues(rejectConflict)))
	assert.Zero(t, testutil.ToFloat64(f.metrics.ReservationsCreated))
	assert.Empty(t, f.publisher.created)

	list, err := f.store.ListActiveByTableAndDate(context.Background(), 1, bookingDay, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}
