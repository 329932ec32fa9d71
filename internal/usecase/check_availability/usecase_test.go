package check_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/internal/service/conflicts"
	"github.com/m04kA/SMC-ReservationService/internal/service/validation"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var day = time.Date(2031, 3, 8, 0, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newUseCase(t *testing.T) (*UseCase, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	store.AddRestaurant(domain.Restaurant{ID: 1, OwnerID: 100, OpeningTime: "11:00", ClosingTime: "22:00", IsActive: true})
	store.AddTable(domain.Table{ID: 1, RestaurantID: 1, TableNumber: "1", Capacity: 4, IsActive: true})
	store.AddTable(domain.Table{ID: 2, RestaurantID: 1, TableNumber: "2", Capacity: 4})

	log := logger.NewNop()
	v := validation.NewValidator(conflicts.NewDetector(store), log).WithTimeProvider(fixedClock{now: day})
	return NewUseCase(store, v, log), store
}

func check(t *testing.T, uc *UseCase, tableID int64, date time.Time, at string) *Response {
	t.Helper()
	resp, err := uc.Execute(context.Background(), &Request{TableID: tableID, Date: date, Time: types.TimeString(at)})
	require.NoError(t, err)
	return resp
}

func TestCheckAvailability_FreeWindow(t *testing.T) {
	uc, _ := newUseCase(t)

	resp := check(t, uc, 1, day, "19:00")
	assert.True(t, resp.Available)
	assert.Nil(t, resp.Errors)
	assert.Equal(t, types.TimeString("21:00"), resp.EndTime)
}

func TestCheckAvailability_ABCScenario(t *testing.T) {
	uc, store := newUseCase(t)
	_, err := store.Create(context.Background(), &domain.Reservation{
		TableID: 1, Date: day, Time: "19:00", GuestCount: 4, Status: domain.StatusPending,
	})
	require.NoError(t, err)

	b := check(t, uc, 1, day, "20:30")
	assert.False(t, b.Available)
	require.NotNil(t, b.Errors)
	assert.True(t, b.Errors.IsConflictOnly())

	c := check(t, uc, 1, day, "21:00")
	assert.True(t, c.Available)

	// проверка ничего не записала
	list, err := store.ListActiveByTableAndDate(context.Background(), 1, day, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCheckAvailability_RuleViolations(t *testing.T) {
	uc, _ := newUseCase(t)

	past := check(t, uc, 1, day.AddDate(0, 0, -1), "19:00")
	assert.False(t, past.Available)
	assert.Contains(t, past.Errors.Fields, validation.FieldDate)

	late := check(t, uc, 1, day, "23:00")
	assert.False(t, late.Available)
	assert.Contains(t, late.Errors.Fields, validation.FieldTime)

	bad := check(t, uc, 1, day, "25:99")
	assert.False(t, bad.Available)
	assert.Equal(t, validation.MsgInvalidTimeValue, bad.Errors.Fields[validation.FieldTime])

	inactive := check(t, uc, 2, day, "19:00")
	assert.False(t, inactive.Available)
	assert.Contains(t, inactive.Errors.Fields, validation.FieldTable)
}

func TestCheckAvailability_Errors(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{TableID: 99, Date: day, Time: "19:00"})
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = uc.Execute(ctx, &Request{TableID: 1, Date: day})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{Date: day, Time: "19:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
