package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vitrine/internal/models"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository with the same listing and soft-delete semantics as
// the GORM one. Useful for tests and for running without a database.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetByID returns a live product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok || product.DeletedAt.Valid {
		return nil, ErrNotFound
	}
	return &product, nil
}

// List returns one page of live products, newest first.
func (r *MockProductRepository) List(_ context.Context, filter ListFilter) (*Page, error) {
	filter.Normalize()

	r.mu.RLock()
	matched := make([]models.Product, 0, len(r.products))
	term := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, p := range r.products {
		if p.DeletedAt.Valid {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		matched = append(matched, p)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return &Page{
		Data:       matched[start:end],
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update applies only the given columns to a live product.
func (r *MockProductRepository) Update(_ context.Context, id string, fields map[string]interface{}) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.DeletedAt.Valid {
		return nil, ErrNotFound
	}
	for column, value := range fields {
		s, _ := value.(string)
		switch column {
		case "name":
			product.Name = s
		case "description":
			product.Description = s
		case "image":
			product.Image = s
		case "price":
			product.Price = s
		case "category":
			product.Category = s
		}
	}
	product.UpdatedAt = time.Now()
	r.products[id] = product
	return &product, nil
}

// SoftDelete marks a product as deleted.
func (r *MockProductRepository) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.DeletedAt.Valid {
		return ErrNotFound
	}
	product.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	r.products[id] = product
	return nil
}
