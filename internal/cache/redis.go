package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airline-booking/config"
	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes a lock only while it still carries the owner token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisCache struct {
	client     redis.UniversalClient
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}), flightsTTL)
}

func NewRedisCacheWithClient(client redis.UniversalClient, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetFlights returns nil, nil on a cache miss.
func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Del(ctx, flightsKey()).Err()
}

// AcquireSeatLocks takes a short lived lock on every seat for owner. It is all
// or nothing: when any seat is already locked the locks taken so far are
// released and false is returned.
func (c *RedisCache) AcquireSeatLocks(ctx context.Context, flightID string, seatIDs []string, owner string, ttl time.Duration) (bool, error) {
	acquired := make([]string, 0, len(seatIDs))
	for _, seat := range seatIDs {
		ok, err := c.client.SetNX(ctx, seatLockKey(flightID, seat), owner, ttl).Result()
		if err != nil || !ok {
			if releaseErr := c.ReleaseSeatLocks(ctx, flightID, acquired, owner); releaseErr != nil && err == nil {
				err = releaseErr
			}
			return false, err
		}
		acquired = append(acquired, seat)
	}
	return true, nil
}

func (c *RedisCache) ReleaseSeatLocks(ctx context.Context, flightID string, seatIDs []string, owner string) error {
	var errs []error
	for _, seat := range seatIDs {
		if err := releaseScript.Run(ctx, c.client, []string{seatLockKey(flightID, seat)}, owner).Err(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", seat, err))
		}
	}
	return errors.Join(errs...)
}

func flightsKey() string {
	return "cache:flights"
}

func seatLockKey(flightID, seatID string) string {
	return fmt.Sprintf("lock:flight:%s:seat:%s", flightID, seatID)
}
