package services

import (
	"context"
	"log"
	"strings"

	"vitrine/internal/models"
	"vitrine/internal/repositories"
)

// Track event types accepted by the analytics endpoint.
const (
	EventView  = "view"
	EventClick = "click"
)

// EventPublisher publishes tracked events for downstream consumers.
// Implemented by pkg/rabbitmq.Client. Publishing is best effort: it
// runs after the counter write and its failure never fails the track
// call.
type EventPublisher interface {
	PublishTrackEvent(productID, eventType string) error
}

// AnalyticsService handles view/click tracking and admin reads of the
// counters.
type AnalyticsService struct {
	repo      repositories.AnalyticsRepository
	publisher EventPublisher // may be nil when no broker is configured
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(repo repositories.AnalyticsRepository, publisher EventPublisher) *AnalyticsService {
	return &AnalyticsService{
		repo:      repo,
		publisher: publisher,
	}
}

// AnalyticsStats is the per-product value in the admin mapping.
type AnalyticsStats struct {
	Views  int64 `json:"views"`
	Clicks int64 `json:"clicks"`
}

// Track records one view or click for a product. Public: no caller
// required, and unknown product ids are accepted so events are never
// dropped on races with product creation or deletion.
func (s *AnalyticsService) Track(ctx context.Context, productID, eventType string) error {
	if strings.TrimSpace(productID) == "" {
		return newValidationError("productId", "productId is required")
	}

	var err error
	switch eventType {
	case EventView:
		err = s.repo.IncrementView(ctx, productID)
	case EventClick:
		err = s.repo.IncrementClick(ctx, productID)
	default:
		return newValidationError("type", "type must be 'view' or 'click'")
	}
	if err != nil {
		return err
	}

	if s.publisher != nil {
		if pubErr := s.publisher.PublishTrackEvent(productID, eventType); pubErr != nil {
			log.Printf("Failed to publish %s event for product %s: %v", eventType, productID, pubErr)
		}
	}
	return nil
}

// GetAll returns every counter as a productID -> stats mapping.
// Admin only.
func (s *AnalyticsService) GetAll(ctx context.Context, caller *models.AuthUser) (map[string]AnalyticsStats, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := make(map[string]AnalyticsStats, len(rows))
	for _, row := range rows {
		stats[row.ProductID] = AnalyticsStats{Views: row.Views, Clicks: row.Clicks}
	}
	return stats, nil
}

// GetByProductID returns the counters of one product. Admin only.
func (s *AnalyticsService) GetByProductID(ctx context.Context, caller *models.AuthUser, productID string) (*models.ProductAnalytics, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.repo.GetByProductID(ctx, productID)
}
