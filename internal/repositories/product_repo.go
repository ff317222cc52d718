package repositories

import (
	"context"
	"errors"

	"vitrine/internal/models"
)

// ErrNotFound is returned when an id does not resolve to a live
// (non-deleted) record.
var ErrNotFound = errors.New("record not found")

// Paging bounds for product listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListFilter narrows and pages a product listing.
type ListFilter struct {
	Page     int
	PageSize int
	Category string
	Search   string
}

// Normalize clamps paging values into their allowed ranges so every
// implementation slices the same way.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

// Page is one slice of a listing plus pagination metadata.
type Page struct {
	Data       []models.Product `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// totalPages is ceil(total/pageSize), floored to 1 so an empty listing
// still reports one (empty) page.
func totalPages(total int64, pageSize int) int {
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ProductRepository defines the interface for product data access.
// Soft-deleted products are invisible to every method.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, filter ListFilter) (*Page, error)
	Create(ctx context.Context, product *models.Product) error
	// Update applies only the given columns and returns the fresh row.
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Product, error)
	SoftDelete(ctx context.Context, id string) error
}
