package paging

import "context"

// Result is one page of items plus the metadata describing the whole result set.
type Result[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
}

// NewResult builds a Result and derives TotalPages from total and pageSize.
func NewResult[T any](data []T, total, pageSize, page int) *Result[T] {
	if data == nil {
		data = make([]T, 0)
	}
	return &Result[T]{
		Data:       data,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
		Page:       page,
		PageSize:   pageSize,
	}
}

// totalPages is ceil(total / pageSize), or 0 when pageSize is 0.
func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}

// Slice pages an in-memory collection in its existing order.
type Slice[T any] []T

// Count returns the number of items in s.
func (s Slice[T]) Count(context.Context) (int, error) { return len(s), nil }

// Fetch returns at most limit items of s starting at offset.
func (s Slice[T]) Fetch(_ context.Context, offset, limit int) ([]T, error) {
	if offset >= len(s) {
		return nil, nil
	}
	end := len(s)
	if limit < end-offset {
		end = offset + limit
	}
	return s[offset:end:end], nil
}
