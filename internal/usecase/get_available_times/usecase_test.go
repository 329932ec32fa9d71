package get_available_times

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var day = time.Date(2030, 2, 14, 0, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newUseCase(t *testing.T) (*UseCase, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	store.AddRestaurant(domain.Restaurant{ID: 1, OwnerID: 100, OpeningTime: "18:00", ClosingTime: "22:00", IsActive: true})
	store.AddTable(domain.Table{ID: 1, RestaurantID: 1, TableNumber: "1", Capacity: 4, IsActive: true})

	uc := NewUseCase(store, store, logger.NewNop())
	uc.timeProvider = fixedClock{now: day}
	return uc, store
}

func startsOf(times []domain.AvailableTime, available bool) []string {
	out := make([]string, 0)
	for _, tm := range times {
		if tm.Available == available {
			out = append(out, tm.StartTime.String())
		}
	}
	return out
}

func TestGetAvailableTimes_EmptyTable(t *testing.T) {
	uc, _ := newUseCase(t)

	resp, err := uc.Execute(context.Background(), &Request{TableID: 1, Date: day, StepMinutes: 60})
	require.NoError(t, err)

	// время закрытия включено
	assert.Equal(t, []string{"18:00", "19:00", "20:00", "21:00", "22:00"}, startsOf(resp.Times, true))
	assert.Equal(t, 5, resp.AvailableCount)
}

func TestGetAvailableTimes_MarksOverlaps(t *testing.T) {
	uc, store := newUseCase(t)
	_, err := store.Create(context.Background(), &domain.Reservation{
		TableID: 1, Date: day, Time: types.MustTimeString("19:00"), GuestCount: 2, Status: domain.StatusConfirmed,
	})
	require.NoError(t, err)
	_, err = store.Create(context.Background(), &domain.Reservation{
		TableID: 1, Date: day, Time: types.MustTimeString("18:00"), GuestCount: 2, Status: domain.StatusCancelled,
	})
	require.NoError(t, err)

	resp, err := uc.Execute(context.Background(), &Request{TableID: 1, Date: day})
	require.NoError(t, err)

	// окно 19:00-21:00 блокирует старты строго между 17:00 и 21:00
	assert.Equal(t, []string{"21:00", "21:30", "22:00"}, startsOf(resp.Times, true))
	assert.Equal(t, []string{"18:00", "18:30", "19:00", "19:30", "20:00", "20:30"}, startsOf(resp.Times, false))
	assert.Equal(t, 3, resp.AvailableCount)
}

func TestGetAvailableTimes_PastDateIsEmpty(t *testing.T) {
	uc, _ := newUseCase(t)

	resp, err := uc.Execute(context.Background(), &Request{TableID: 1, Date: day.AddDate(0, 0, -1)})
	require.NoError(t, err)
	assert.Empty(t, resp.Times)
}

func TestGetAvailableTimes_Errors(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{TableID: 9, Date: day})
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = uc.Execute(ctx, &Request{TableID: 1, Date: day, StepMinutes: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{TableID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateStartTimes_StopsAtMidnight(t *testing.T) {
	starts := generateStartTimes("22:00", "23:59", 60)
	assert.Equal(t, []types.TimeString{"22:00", "23:00"}, starts)
}
