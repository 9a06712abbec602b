// Package pagination slices ordered sources into pages with navigation
// metadata.
package pagination

import (
	"context"
	"fmt"

	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

var ErrInvalidPage = fmt.Errorf("%w: page number and page size must be positive", customErrors.ErrInvalidArgument)

// Source is an already ordered, optionally filtered collection.
type Source[T any] interface {
	Count(ctx context.Context) (int64, error)
	Slice(ctx context.Context, offset, limit int) ([]T, error)
}

type Page[T any] struct {
	Items       []T
	TotalCount  int64
	PageSize    int
	CurrentPage int
	TotalPages  int
	HasPrevious bool
	HasNext     bool
}

// Metadata is the navigation tuple published in the X-Pagination header.
type Metadata struct {
	TotalCount  int64 `json:"TotalCount"`
	PageSize    int   `json:"PageSize"`
	CurrentPage int   `json:"CurrentPage"`
	TotalPages  int   `json:"TotalPages"`
	HasNext     bool  `json:"HasNext"`
	HasPrevious bool  `json:"HasPrevious"`
}

func (p Page[T]) Metadata() Metadata {
	return Metadata{
		TotalCount:  p.TotalCount,
		PageSize:    p.PageSize,
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}

// New builds a page around items that were already sliced from a collection
// of count elements.
func New[T any](items []T, count int64, pageNumber, pageSize int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if count > 0 {
		totalPages = int((count-1)/int64(pageSize) + 1)
	}
	return Page[T]{
		Items:       items,
		TotalCount:  count,
		PageSize:    pageSize,
		CurrentPage: pageNumber,
		TotalPages:  totalPages,
		HasPrevious: pageNumber > 1,
		HasNext:     pageNumber < totalPages,
	}
}

// ToPagedList counts the whole source and returns the requested page.
// A page past the end is empty rather than an error.
func ToPagedList[T any](ctx context.Context, src Source[T], pageNumber, pageSize int) (Page[T], error) {
	if pageNumber < 1 || pageSize < 1 {
		return Page[T]{}, ErrInvalidPage
	}

	count, err := src.Count(ctx)
	if err != nil {
		return Page[T]{}, customErrors.WrapInternal(err, "count")
	}

	// Compare page indexes, not offsets: (pageNumber-1)*pageSize can overflow.
	skipped := int64(pageNumber - 1)
	if count == 0 || skipped > (count-1)/int64(pageSize) {
		return New[T](nil, count, pageNumber, pageSize), nil
	}

	items, err := src.Slice(ctx, int(skipped*int64(pageSize)), pageSize)
	if err != nil {
		return Page[T]{}, customErrors.WrapInternal(err, "slice")
	}
	return New(items, count, pageNumber, pageSize), nil
}

// Map converts page items while keeping the metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, fn(it))
	}
	return Page[U]{
		Items:       out,
		TotalCount:  p.TotalCount,
		PageSize:    p.PageSize,
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		HasPrevious: p.HasPrevious,
		HasNext:     p.HasNext,
	}
}
