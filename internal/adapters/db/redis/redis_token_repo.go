package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "revoked:"

type RedisTokenRepo struct {
	client *redis.Client
}

func NewRedisTokenRepo(client *redis.Client) *RedisTokenRepo {
	return &RedisTokenRepo{
		client: client,
	}
}

// RevokeUser records the security stamp username received on revocation.
// Access tokens carrying any other stamp are rejected while the marker
// lives, so ttl is the access token validity.
func (r *RedisTokenRepo) RevokeUser(ctx context.Context, username, securityStamp string, ttl time.Duration) error {
	return r.client.Set(ctx, revokedPrefix+username, securityStamp, safeTTL(ttl)).Err()
}

func (r *RedisTokenRepo) CurrentStamp(ctx context.Context, username string) (string, bool, error) {
	val, err := r.client.Get(ctx, revokedPrefix+username).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", false, nil
	case err != nil:
		return "", false, err
	}
	return val, true, nil
}

func safeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Hour
	}
	return ttl
}
