package domain

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest selects a zero-based page of results.
type PageRequest struct {
	Page int
	Size int
}

// Normalize applies the default size for zero and clamps oversized pages.
// Callers reject negative values before normalizing.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the number of rows to skip, saturating at math.MaxInt when
// Page*Size does not fit in an int.
func (p PageRequest) Offset() int {
	if p.Size > 0 && p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items         []T
	Page          int
	Size          int
	TotalElements int
}

// NewPage builds a Page from a normalized request.
func NewPage[T any](items []T, req PageRequest, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Page: req.Page, Size: req.Size, TotalElements: total}
}

// TotalPages returns the number of pages needed to hold TotalElements.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.TotalElements + p.Size - 1) / p.Size
}
