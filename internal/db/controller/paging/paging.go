// Package paging applies page, size and sort parameters to gorm list queries.
package paging

import (
	"strings"

	"gorm.io/gorm"
)

const (
	// DefaultPageSize for pagination.
	DefaultPageSize = 25
	// MaxPageSize clamps the page size upper bound.
	MaxPageSize = 100

	// DirectionAsc sorts ascending.
	DirectionAsc = "asc"
	// DirectionDesc sorts descending.
	DirectionDesc = "desc"
)

// Request describes the requested page. Page is 1-based.
type Request struct {
	Page      int
	Size      int
	Sort      string
	Direction string
}

// Result is one page of items.
type Result[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Sorts maps public sort names to column expressions.
type Sorts map[string]string

// Find counts tx, then loads the requested page into a Result.
// Unknown sort names fall back to defaultSort. Scopes apply to the page query only,
// e.g. preloads.
func Find[T any](
	tx *gorm.DB,
	req Request,
	sorts Sorts,
	defaultSort string,
	scopes ...func(*gorm.DB) *gorm.DB,
) (Result[T], error) {
	req = normalize(req)
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return Result[T]{}, err
	}

	column, ok := sorts[req.Sort]
	if !ok {
		column = sorts[defaultSort]
	}

	items := make([]T, 0, req.Size)

	err := tx.Scopes(scopes...).
		Order(column + " " + req.Direction).
		Limit(req.Size).
		Offset((req.Page - 1) * req.Size).
		Find(&items).Error
	if err != nil {
		return Result[T]{}, err
	}

	return Result[T]{
		Items:      items,
		Page:       req.Page,
		Size:       req.Size,
		Total:      total,
		TotalPages: int((total + int64(req.Size) - 1) / int64(req.Size)),
	}, nil
}

func normalize(req Request) Request {
	if req.Page < 1 {
		req.Page = 1
	}

	if req.Size < 1 || req.Size > MaxPageSize {
		req.Size = DefaultPageSize
	}

	if strings.EqualFold(req.Direction, DirectionDesc) {
		req.Direction = DirectionDesc
	} else {
		req.Direction = DirectionAsc
	}

	return req
}
