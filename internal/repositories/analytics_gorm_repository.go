package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vitrine/internal/models"
)

// GORMAnalyticsRepository is a GORM implementation of
// AnalyticsRepository. Increments are pushed down to the database as a
// single upsert so the row lock, not the caller, arbitrates concurrent
// traffic.
type GORMAnalyticsRepository struct {
	db *gorm.DB
}

// NewGORMAnalyticsRepository creates a new instance of GORMAnalyticsRepository.
func NewGORMAnalyticsRepository(db *gorm.DB) *GORMAnalyticsRepository {
	return &GORMAnalyticsRepository{
		db: db,
	}
}

// increment runs INSERT .. ON CONFLICT (product_id) DO UPDATE SET
// <column> = <column> + 1 in one statement. Never read-modify-write.
func (r *GORMAnalyticsRepository) increment(ctx context.Context, productID, column string) error {
	row := models.ProductAnalytics{ProductID: productID}
	switch column {
	case "views":
		row.Views = 1
	case "clicks":
		row.Clicks = 1
	default:
		return fmt.Errorf("unknown counter column %q", column)
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			column:       gorm.Expr(column + " + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to increment %s for product %s: %w", column, productID, err)
	}
	return nil
}

// IncrementView atomically adds one view, creating the counter row on
// first use.
func (r *GORMAnalyticsRepository) IncrementView(ctx context.Context, productID string) error {
	return r.increment(ctx, productID, "views")
}

// IncrementClick atomically adds one click, creating the counter row
// on first use.
func (r *GORMAnalyticsRepository) IncrementClick(ctx context.Context, productID string) error {
	return r.increment(ctx, productID, "clicks")
}

// GetAll returns every counter row.
func (r *GORMAnalyticsRepository) GetAll(ctx context.Context) ([]models.ProductAnalytics, error) {
	var rows []models.ProductAnalytics
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get analytics: %w", err)
	}
	return rows, nil
}

// GetByProductID returns the counter row for one product.
func (r *GORMAnalyticsRepository) GetByProductID(ctx context.Context, productID string) (*models.ProductAnalytics, error) {
	var row models.ProductAnalytics
	if err := r.db.WithContext(ctx).First(&row, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get analytics for product %s: %w", productID, err)
	}
	return &row, nil
}
