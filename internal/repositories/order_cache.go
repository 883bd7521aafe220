package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"toro-system/internal/entities"
)

// ErrCacheMiss означает, что заявки в кеше нет — надо идти в БД.
var ErrCacheMiss = errors.New("заявка не найдена в кеше")

// OrderCacheInterface - кеш одиночных заявок поверх GET /orders/:id.
// Любая мутация заявки обязана инвалидировать её ключ.
type OrderCacheInterface interface {
	GetOrder(ctx context.Context, id int64) (*entities.Order, error)
	SetOrder(ctx context.Context, order *entities.Order) error
	DeleteOrder(ctx context.Context, id int64) error
}

type RedisOrderCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOrderCache(client *redis.Client, ttl time.Duration) OrderCacheInterface {
	return &RedisOrderCache{client: client, ttl: ttl}
}

func orderCacheKey(id int64) string {
	return fmt.Sprintf("order:%d", id)
}

func (r *RedisOrderCache) GetOrder(ctx context.Context, id int64) (*entities.Order, error) {
	raw, err := r.client.Get(ctx, orderCacheKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var order entities.Order
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		// Испорченная запись: выбрасываем её и считаем промахом.
		_ = r.client.Del(ctx, orderCacheKey(id)).Err()
		return nil, ErrCacheMiss
	}
	return &order, nil
}

func (r *RedisOrderCache) SetOrder(ctx context.Context, order *entities.Order) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, orderCacheKey(order.ID), raw, r.ttl).Err()
}

func (r *RedisOrderCache) DeleteOrder(ctx context.Context, id int64) error {
	return r.client.Del(ctx, orderCacheKey(id)).Err()
}

// NoopOrderCache используется, когда Redis не сконфигурирован.
type NoopOrderCache struct{}

func NewNoopOrderCache() OrderCacheInterface {
	return &NoopOrderCache{}
}

func (*NoopOrderCache) GetOrder(ctx context.Context, id int64) (*entities.Order, error) {
	return nil, ErrCacheMiss
}

func (*NoopOrderCache) SetOrder(ctx context.Context, order *entities.Order) error {
	return nil
}

func (*NoopOrderCache) DeleteOrder(ctx context.Context, id int64) error {
	return nil
}
