package repositories

import (
	"context"

	"vitrine/internal/models"
)

// AnalyticsRepository defines access to per-product view/click
// counters.
//
// Increment operations must be a single atomic create-or-increment:
// the first call for a product creates its row with count 1, later
// calls add 1, and concurrent callers for the same product must never
// lose an update. Counters are independent of the products table, so
// incrementing an unknown product id is accepted.
type AnalyticsRepository interface {
	IncrementView(ctx context.Context, productID string) error
	IncrementClick(ctx context.Context, productID string) error
	GetAll(ctx context.Context) ([]models.ProductAnalytics, error)
	GetByProductID(ctx context.Context, productID string) (*models.ProductAnalytics, error)
}
