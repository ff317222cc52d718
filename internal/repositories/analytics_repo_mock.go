package repositories

import (
	"context"
	"sync"
	"time"

	"vitrine/internal/models"
)

// MockAnalyticsRepository is an in-memory implementation of
// AnalyticsRepository. The mutex makes create-or-increment a single
// atomic step, matching the upsert the GORM implementation issues.
type MockAnalyticsRepository struct {
	counters map[string]*models.ProductAnalytics
	mu       sync.Mutex
}

// NewMockAnalyticsRepository creates a new instance of MockAnalyticsRepository.
func NewMockAnalyticsRepository() *MockAnalyticsRepository {
	return &MockAnalyticsRepository{
		counters: make(map[string]*models.ProductAnalytics),
	}
}

func (r *MockAnalyticsRepository) row(productID string) *models.ProductAnalytics {
	counter, ok := r.counters[productID]
	if !ok {
		now := time.Now()
		counter = &models.ProductAnalytics{ProductID: productID, CreatedAt: now, UpdatedAt: now}
		r.counters[productID] = counter
	}
	return counter
}

// IncrementView atomically adds one view.
func (r *MockAnalyticsRepository) IncrementView(_ context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	counter := r.row(productID)
	counter.Views++
	counter.UpdatedAt = time.Now()
	return nil
}

// IncrementClick atomically adds one click.
func (r *MockAnalyticsRepository) IncrementClick(_ context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	counter := r.row(productID)
	counter.Clicks++
	counter.UpdatedAt = time.Now()
	return nil
}

// GetAll returns a copy of every counter row.
func (r *MockAnalyticsRepository) GetAll(_ context.Context) ([]models.ProductAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]models.ProductAnalytics, 0, len(r.counters))
	for _, counter := range r.counters {
		rows = append(rows, *counter)
	}
	return rows, nil
}

// GetByProductID returns a copy of one product's counter row.
func (r *MockAnalyticsRepository) GetByProductID(_ context.Context, productID string) (*models.ProductAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counter, ok := r.counters[productID]
	if !ok {
		return nil, ErrNotFound
	}
	row := *counter
	return &row, nil
}
