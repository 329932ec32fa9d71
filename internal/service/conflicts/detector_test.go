package conflicts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var day = time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)

func seed(t *testing.T, store *memory.Store, tableID int64, at string, status domain.ReservationStatus) *domain.Reservation {
	t.Helper()
	res, err := store.Create(context.Background(), &domain.Reservation{
		CustomerID: 1,
		TableID:    tableID,
		Date:       day,
		Time:       types.MustTimeString(at),
		GuestCount: 2,
		Status:     status,
	})
	require.NoError(t, err)
	return res
}

func TestDetector_HasConflict(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, 1, "18:00", domain.StatusPending)
	d := NewDetector(store)

	tests := []struct {
		name string
		at   string
		want bool
	}{
		{name: "same start", at: "18:00", want: true},
		{name: "starts inside", at: "19:00", want: true},
		{name: "ends inside", at: "16:30", want: true},
		{name: "ends at start", at: "16:00", want: false},
		{name: "starts at end", at: "20:00", want: false},
		{name: "far before", at: "12:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.HasConflict(context.Background(), 1, day, types.MustTimeString(tt.at), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetector_ABCScenario(t *testing.T) {
	store := memory.NewStore()
	d := NewDetector(store)
	ctx := context.Background()

	// A: 18:00 принято
	seed(t, store, 1, "18:00", domain.StatusPending)

	// B: 19:00 пересекается с A
	conflict, err := d.HasConflict(ctx, 1, day, types.MustTimeString("19:00"), nil)
	require.NoError(t, err)
	assert.True(t, conflict)

	// C: 20:00 касается конца A
	conflict, err = d.HasConflict(ctx, 1, day, types.MustTimeString("20:00"), nil)
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestDetector_IgnoresInactiveOtherTablesAndOtherDates(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, 1, "18:00", domain.StatusCancelled)
	seed(t, store, 1, "12:00", domain.StatusCompleted)
	seed(t, store, 1, "14:00", domain.StatusNoShow)
	seed(t, store, 2, "18:00", domain.StatusConfirmed)

	_, err := store.Create(context.Background(), &domain.Reservation{
		TableID: 1,
		Date:    day.AddDate(0, 0, 1),
		Time:    types.MustTimeString("18:00"),
		Status:  domain.StatusConfirmed,
	})
	require.NoError(t, err)

	d := NewDetector(store)
	for _, at := range []string{"18:00", "12:00", "14:00"} {
		conflict, err := d.HasConflict(context.Background(), 1, day, types.MustTimeString(at), nil)
		require.NoError(t, err)
		assert.False(t, conflict, at)
	}
}

func TestDetector_ExcludesReservation(t *testing.T) {
	store := memory.NewStore()
	own := seed(t, store, 1, "18:00", domain.StatusConfirmed)
	d := NewDetector(store)

	conflict, err := d.HasConflict(context.Background(), 1, day, types.MustTimeString("19:00"), &own.ID)
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestDetector_EmptyTable(t *testing.T) {
	d := NewDetector(memory.NewStore())

	conflict, err := d.HasConflict(context.Background(), 1, day, types.MustTimeString("18:00"), nil)
	require.NoError(t, err)
	assert.False(t, conflict)
}

type failingRepo struct{}

func (failingRepo) ListActiveByTableAndDate(context.Context, int64, time.Time, *int64) ([]*domain.Reservation, error) {
	return nil, errors.New("connection reset")
}

func TestDetector_RepositoryFailure(t *testing.T) {
	d := NewDetector(failingRepo{})

	_, err := d.HasConflict(context.Background(), 1, day, types.MustTimeString("18:00"), nil)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestDetector_InvalidTime(t *testing.T) {
	d := NewDetector(memory.NewStore())

	_, err := d.HasConflict(context.Background(), 1, day, types.TimeString("25:99"), nil)
	assert.ErrorIs(t, err, ErrInvalidTime)
}
