package models

import (
	"time"

	"gorm.io/gorm"
)

// Product categories known to the catalog.
const (
	CategoryGamer       = "gamer"
	CategorySmartphone  = "smartphone"
	CategoryGames       = "games"
	CategoryAccessories = "accessories"
)

// DefaultPrice is assigned when a product is created without a price.
// Price is display text, not a numeric amount: most items are quoted
// over chat rather than sold at a fixed price.
const DefaultPrice = "Sob consulta"

// Product represents a catalog entry. DeletedAt implements soft
// deletion; GORM excludes deleted rows from every query, so no call
// site needs to remember the predicate.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:varchar(2000)"`
	Image       string         `json:"image"`
	Price       string         `json:"price" gorm:"type:varchar(100)"`
	Category    string         `json:"category" gorm:"type:varchar(32);index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// ValidCategory reports whether c is one of the known category values.
func ValidCategory(c string) bool {
	switch c {
	case CategoryGamer, CategorySmartphone, CategoryGames, CategoryAccessories:
		return true
	}
	return false
}
