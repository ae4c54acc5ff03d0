package handler

import (
	"strconv"

	"immo/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// PaginationMeta defines the structure for pagination metadata.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

// PaginatedResponse defines the structure for a paginated list of any type.
type PaginatedResponse[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginatedResponse wraps one store page.
func NewPaginatedResponse[T any](p store.Page[T]) PaginatedResponse[T] {
	limit := p.Limit
	if limit <= 0 {
		limit = 1
	}
	data := p.Items
	if data == nil {
		data = []T{}
	}
	return PaginatedResponse[T]{
		Data: data,
		Meta: PaginationMeta{
			TotalItems:  p.Total,
			TotalPages:  (int(p.Total) + limit - 1) / limit,
			CurrentPage: p.Page,
			PageSize:    limit,
		},
	}
}

// pageParams reads ?page= and ?limit=, clamped to sane values.
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
