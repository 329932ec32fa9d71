package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const (
	keyRestaurant = "reservation-service:restaurant:%d"
	keyTable      = "reservation-service:table:%d"
)

// Client подмножество redis.Client, которое использует кэш
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RestaurantRepository источник данных о ресторанах и столах
type RestaurantRepository interface {
	GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error)
	GetTable(ctx context.Context, id int64) (*domain.Table, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// RestaurantCache кэширует рестораны и столы в Redis.
// Ошибки Redis не ломают запрос: чтение уходит в репозиторий.
type RestaurantCache struct {
	repo   RestaurantRepository
	client Client
	ttl    time.Duration
	logger Logger
}

// NewRestaurantCache создает read-through кэш поверх репозитория
func NewRestaurantCache(repo RestaurantRepository, client Client, ttl time.Duration, logger Logger) *RestaurantCache {
	return &RestaurantCache{
		repo:   repo,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetRestaurant возвращает ресторан из кэша или из репозитория
func (c *RestaurantCache) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	key := fmt.Sprintf(keyRestaurant, id)

	var cached domain.Restaurant
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	restaurant, err := c.repo.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, restaurant)
	return restaurant, nil
}

// GetTable возвращает стол из кэша или из репозитория
func (c *RestaurantCache) GetTable(ctx context.Context, id int64) (*domain.Table, error) {
	key := fmt.Sprintf(keyTable, id)

	var cached domain.Table
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	table, err := c.repo.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, table)
	return table, nil
}

func (c *RestaurantCache) load(ctx context.Context, key string, dst interface{}) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("RestaurantCache: get %s failed: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("RestaurantCache: corrupted entry %s: %v", key, err)
		return false
	}
	return true
}

func (c *RestaurantCache) store(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("RestaurantCache: marshal %s failed: %v", key, err)
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("RestaurantCache: set %s failed: %v", key, err)
	}
}
