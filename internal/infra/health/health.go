package health

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Checker reports whether the service dependencies answer.
type Checker struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewChecker(db *gorm.DB, redisCli *redis.Client) *Checker {
	return &Checker{db: db, redis: redisCli}
}

func (c *Checker) Check(ctx context.Context) error {
	if err := c.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}
