// Package paging turns a countable, fetchable collection into a single page of
// results plus the totals a client needs to walk the remaining pages.
package paging

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidPageSize is returned when an explicit page size is zero or negative.
// It signals caller misuse, not bad user input, and is never coerced.
var ErrInvalidPageSize = errors.New("page size must be greater than 0")

// Parameters selects one page of a result set.
// A nil PageSize means "no limit": the whole result set is returned as one page.
type Parameters struct {
	PageNumber int  `form:"pageNumber" json:"pageNumber"`
	PageSize   *int `form:"pageSize" json:"pageSize,omitempty"`
}

// Normalized returns a copy of p with PageNumber coerced to 1 when it is not positive.
// An explicit non-positive PageSize fails with ErrInvalidPageSize.
func (p Parameters) Normalized() (Parameters, error) {
	if p.PageNumber <= 0 {
		p.PageNumber = 1
	}
	if p.PageSize != nil && *p.PageSize <= 0 {
		return p, fmt.Errorf("page size %d: %w", *p.PageSize, ErrInvalidPageSize)
	}
	return p, nil
}

// Source is a filtered collection that can be counted and read in windows.
// Count and Fetch must apply the same predicate so the total matches the data.
type Source[T any] interface {
	Count(ctx context.Context) (int, error)
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

// Funcs adapts a pair of functions into a Source.
type Funcs[T any] struct {
	CountFn func(ctx context.Context) (int, error)
	FetchFn func(ctx context.Context, offset, limit int) ([]T, error)
}

// Count calls CountFn.
func (f Funcs[T]) Count(ctx context.Context) (int, error) { return f.CountFn(ctx) }

// Fetch calls FetchFn.
func (f Funcs[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	return f.FetchFn(ctx, offset, limit)
}

// Page reads one page from src.
func Page[T any](ctx context.Context, src Source[T], params Parameters) (*Result[T], error) {
	return PageAndConvert(ctx, src, params, func(item T) T { return item })
}

// PageAndConvert reads one page from src and converts every item with convert.
//
// The total is counted before any offset or limit is applied, in a call separate
// from the fetch. Pages past the end are empty, not an error.
func PageAndConvert[T, Y any](ctx context.Context, src Source[T], params Parameters, convert func(T) Y) (*Result[Y], error) {
	p, err := params.Normalized()
	if err != nil {
		return nil, err
	}

	total, err := src.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	pageSize := total
	if p.PageSize != nil {
		pageSize = *p.PageSize
	}

	data := make([]Y, 0)
	// Comparing page indexes instead of offsets keeps huge page numbers from overflowing.
	if pageSize > 0 && p.PageNumber-1 < totalPages(total, pageSize) {
		offset := (p.PageNumber - 1) * pageSize
		items, err := src.Fetch(ctx, offset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", p.PageNumber, err)
		}
		data = make([]Y, 0, len(items))
		for _, item := range items {
			data = append(data, convert(item))
		}
	}

	return NewResult(data, total, pageSize, p.PageNumber), nil
}
