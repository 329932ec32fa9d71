package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var (
	day      = time.Date(2030, 7, 4, 0, 0, 0, 0, time.UTC)
	owner    = domain.Actor{UserID: 100, Role: domain.RoleOwner}
	customer = domain.Actor{UserID: 7, Role: domain.RoleCustomer}
	admin    = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	store.AddRestaurant(domain.Restaurant{ID: 1, OwnerID: 100, OpeningTime: "11:00", ClosingTime: "22:00", IsActive: true})
	store.AddRestaurant(domain.Restaurant{ID: 2, OwnerID: 200, OpeningTime: "11:00", ClosingTime: "22:00", IsActive: true})
	store.AddTable(domain.Table{ID: 10, RestaurantID: 1, TableNumber: "A", Capacity: 4, IsActive: true})
	store.AddTable(domain.Table{ID: 20, RestaurantID: 2, TableNumber: "B", Capacity: 4, IsActive: true})

	return NewService(store, store, logger.NewNop()), store
}

func add(t *testing.T, store *memory.Store, tableID, customerID int64, date time.Time, at string, status domain.ReservationStatus) *domain.Reservation {
	t.Helper()
	res, err := store.Create(context.Background(), &domain.Reservation{
		CustomerID: customerID,
		TableID:    tableID,
		Date:       date,
		Time:       types.MustTimeString(at),
		GuestCount: 2,
		Status:     status,
	})
	require.NoError(t, err)
	return res
}

func TestService_GetByID_Access(t *testing.T) {
	svc, store := newService(t)
	res := add(t, store, 10, customer.UserID, day, "19:00", domain.StatusPending)
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   domain.Actor
		wantErr error
	}{
		{name: "customer", actor: customer},
		{name: "owner", actor: owner},
		{name: "admin", actor: admin},
		{name: "another owner", actor: domain.Actor{UserID: 200, Role: domain.RoleOwner}, wantErr: ErrAccessDenied},
		{name: "stranger", actor: domain.Actor{UserID: 8, Role: domain.RoleCustomer}, wantErr: ErrAccessDenied},
		{name: "owner id without owner role", actor: domain.Actor{UserID: 100, Role: domain.RoleCustomer}, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetByID(ctx, res.ID, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, res.ID, got.ID)
			assert.Equal(t, "19:00", got.ReservationTime)
			assert.Equal(t, "21:00", got.EndTime)
		})
	}

	_, err := svc.GetByID(ctx, 999, customer)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestService_GetCustomerReservations(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	add(t, store, 10, customer.UserID, day, "12:00", domain.StatusPending)
	add(t, store, 20, customer.UserID, day, "12:00", domain.StatusCancelled)
	add(t, store, 10, 9, day, "18:00", domain.StatusPending)

	all, err := svc.GetCustomerReservations(ctx, &models.GetCustomerReservationsRequest{Actor: customer})
	require.NoError(t, err)
	assert.Len(t, all.Reservations, 2)

	cancelled, err := svc.GetCustomerReservations(ctx, &models.GetCustomerReservationsRequest{Actor: customer, Status: ptr.Ptr("cancelled")})
	require.NoError(t, err)
	require.Len(t, cancelled.Reservations, 1)
	assert.Equal(t, int64(20), cancelled.Reservations[0].TableID)

	_, err = svc.GetCustomerReservations(ctx, &models.GetCustomerReservationsRequest{Actor: customer, Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	empty, err := svc.GetCustomerReservations(ctx, &models.GetCustomerReservationsRequest{Actor: admin})
	require.NoError(t, err)
	assert.NotNil(t, empty.Reservations)
	assert.Empty(t, empty.Reservations)
}

func TestService_GetRestaurantReservations(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	add(t, store, 10, 7, day, "12:00", domain.StatusPending)
	add(t, store, 10, 8, day, "18:00", domain.StatusCancelled)
	add(t, store, 10, 9, day.AddDate(0, 0, 2), "18:00", domain.StatusConfirmed)
	add(t, store, 20, 7, day, "18:00", domain.StatusConfirmed)

	active, err := svc.GetRestaurantReservations(ctx, &models.GetRestaurantReservationsRequest{Actor: owner, RestaurantID: 1})
	require.NoError(t, err)
	assert.Len(t, active.Reservations, 2)

	all, err := svc.GetRestaurantReservations(ctx, &models.GetRestaurantReservationsRequest{Actor: admin, RestaurantID: 1, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all.Reservations, 3)

	oneDay, err := svc.GetRestaurantReservations(ctx, &models.GetRestaurantReservationsRequest{
		Actor:        owner,
		RestaurantID: 1,
		StartDate:    &day,
		EndDate:      &day,
	})
	require.NoError(t, err)
	assert.Len(t, oneDay.Reservations, 1)

	_, err = svc.GetRestaurantReservations(ctx, &models.GetRestaurantReservationsRequest{Actor: customer, RestaurantID: 1})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetRestaurantReservations(ctx, &models.GetRestaurantReservationsRequest{Actor: owner, RestaurantID: 2})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetRestaurantReservations(ctx, &models.GetRestaurantReservationsRequest{Actor: owner, RestaurantID: 3})
	assert.ErrorIs(t, err, ErrRestaurantNotFound)

	before := day.AddDate(0, 0, -1)
	_, err = svc.GetRestaurantReservations(ctx, &models.GetRestaurantReservationsRequest{Actor: owner, RestaurantID: 1, StartDate: &day, EndDate: &before})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
