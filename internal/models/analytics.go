package models

import "time"

// ProductAnalytics holds per-product view/click counters. Rows are
// created lazily on the first tracked event and are deliberately not
// foreign-keyed to products: tracking must survive races with product
// creation and deletion, and counters outlive soft-deleted products.
type ProductAnalytics struct {
	ProductID string    `json:"product_id" gorm:"primaryKey;type:varchar(36)"`
	Views     int64     `json:"views" gorm:"not null;default:0"`
	Clicks    int64     `json:"clicks" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName overrides GORM's pluralization ("product_analytics" is
// already plural).
func (ProductAnalytics) TableName() string {
	return "product_analytics"
}
