package pagination

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type querySource[T any] struct {
	db *gorm.DB
}

// FromQuery pages a gorm query. The query must carry its own ORDER BY.
func FromQuery[T any](db *gorm.DB) Source[T] {
	return querySource[T]{db: db.Session(&gorm.Session{})}
}

func (s querySource[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(new(T)).Count(&n).Error
	return n, err
}

func (s querySource[T]) Slice(ctx context.Context, offset, limit int) ([]T, error) {
	var items []T
	err := s.db.WithContext(ctx).Offset(offset).Limit(limit).Find(&items).Error
	return items, err
}

type sliceSource[T any] []T

// FromSlice pages an in-memory slice in its current order.
func FromSlice[T any](items []T) Source[T] {
	return sliceSource[T](items)
}

func (s sliceSource[T]) Count(context.Context) (int64, error) {
	return int64(len(s)), nil
}

func (s sliceSource[T]) Slice(_ context.Context, offset, limit int) ([]T, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("negative offset %d or limit %d", offset, limit)
	}
	if offset >= len(s) {
		return nil, nil
	}
	end := offset + min(limit, len(s)-offset)
	out := make([]T, end-offset)
	copy(out, s[offset:end])
	return out, nil
}
