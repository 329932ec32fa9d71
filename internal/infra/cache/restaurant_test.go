package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	restaurantRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/restaurant"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type fakeRedis struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	failGet bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failGet {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

type countingRepo struct {
	*memory.Store
	restaurantCalls int
	tableCalls      int
}

func (r *countingRepo) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	r.restaurantCalls++
	return r.Store.GetRestaurant(ctx, id)
}

func (r *countingRepo) GetTable(ctx context.Context, id int64) (*domain.Table, error) {
	r.tableCalls++
	return r.Store.GetTable(ctx, id)
}

func newCache(t *testing.T) (*RestaurantCache, *countingRepo, *fakeRedis) {
	t.Helper()

	store := memory.NewStore()
	store.AddRestaurant(domain.Restaurant{ID: 1, OwnerID: 100, Name: "Trattoria", OpeningTime: "11:00", ClosingTime: "22:00", IsActive: true})
	store.AddTable(domain.Table{ID: 5, RestaurantID: 1, TableNumber: "5A", Capacity: 4, IsActive: true})

	repo := &countingRepo{Store: store}
	rdb := newFakeRedis()
	return NewRestaurantCache(repo, rdb, time.Minute, logger.NewNop()), repo, rdb
}

func TestRestaurantCache_ReadThrough(t *testing.T) {
	c, repo, rdb := newCache(t)
	ctx := context.Background()

	first, err := c.GetRestaurant(ctx, 1)
	require.NoError(t, err)
	second, err := c.GetRestaurant(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.restaurantCalls)
	assert.Equal(t, first.ClosingTime, second.ClosingTime)
	assert.Equal(t, first.OwnerID, second.OwnerID)
	assert.Equal(t, time.Minute, rdb.ttls["reservation-service:restaurant:1"])

	table, err := c.GetTable(ctx, 5)
	require.NoError(t, err)
	_, err = c.GetTable(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.tableCalls)
	assert.Equal(t, "5A", table.TableNumber)
}

func TestRestaurantCache_NotFoundIsNotCached(t *testing.T) {
	c, repo, rdb := newCache(t)
	ctx := context.Background()

	_, err := c.GetTable(ctx, 404)
	assert.ErrorIs(t, err, restaurantRepo.ErrTableNotFound)
	_, err = c.GetTable(ctx, 404)
	assert.ErrorIs(t, err, restaurantRepo.ErrTableNotFound)

	assert.Equal(t, 2, repo.tableCalls)
	assert.Empty(t, rdb.data)
}

func TestRestaurantCache_RedisDownFallsBack(t *testing.T) {
	c, repo, rdb := newCache(t)
	rdb.failGet = true

	restaurant, err := c.GetRestaurant(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Trattoria", restaurant.Name)
	assert.Equal(t, 1, repo.restaurantCalls)
}

func TestRestaurantCache_CorruptedEntry(t *testing.T) {
	c, repo, rdb := newCache(t)
	rdb.data["reservation-service:table:5"] = "{not json"

	table, err := c.GetTable(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), table.ID)
	assert.Equal(t, 1, repo.tableCalls)
}
