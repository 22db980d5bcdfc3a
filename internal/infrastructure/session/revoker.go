// Package session implementa la lista de revocación de tokens usada en logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/almoxerife-api/internal/application/auth"
	"github.com/jhoicas/almoxerife-api/internal/domain"
)

const keyPrefix = "almoxerife:revoked:"

var (
	_ auth.TokenRevoker = (*RedisRevoker)(nil)
	_ auth.TokenRevoker = NoopRevoker{}
)

// NewRedisClient crea el cliente desde REDIS_URL y valida la conexión.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// RedisRevoker guarda cada jti revocado como clave con TTL igual a la vida restante del token.
type RedisRevoker struct {
	rdb *redis.Client
}

// NewRedisRevoker construye el revocador sobre un cliente ya conectado.
func NewRedisRevoker(rdb *redis.Client) *RedisRevoker {
	return &RedisRevoker{rdb: rdb}
}

func key(tokenID string) string { return keyPrefix + tokenID }

// Revoke marca el token como revocado hasta que expire por sí solo.
func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, key(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("%w: revocar sesión: %w", domain.ErrStorage, err)
	}
	return nil
}

// IsRevoked consulta si el jti fue revocado.
func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	err := r.rdb.Get(ctx, key(tokenID)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("%w: consultar sesión: %w", domain.ErrStorage, err)
	}
}

// NoopRevoker se usa cuando no hay Redis: el logout solo borra la cookie.
type NoopRevoker struct{}

func (NoopRevoker) Revoke(context.Context, string, time.Duration) error { return nil }

func (NoopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }
