package models

import (
	"fmt"
	"time"
)

// Product represents a sellable product in the catalog
type Product struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	Slug            string   `gorm:"uniqueIndex;not null" json:"slug"`
	Name            string   `gorm:"not null" json:"name"`
	Description     string   `gorm:"type:text;not null" json:"description"`
	Ingredients     *string  `gorm:"type:text" json:"ingredients"`
	Price           float64  `gorm:"not null;check:price > 0" json:"price"`
	WeightDisplay   string   `gorm:"not null" json:"weight_display"`
	PackagingPieces *int     `json:"packaging_pieces"` // nullable, number of pieces per package
	UnitGrams       *int     `json:"unit_grams"`       // nullable, estimated weight per piece in grams
	Image           *string  `json:"image"`            // nullable, S3 key for product photo
	ImageURL        *string  `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for photo
	IsActive        bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// PackagingInfo derives the human-readable packaging description from the
// piece count and per-piece weight. Returns "" when neither is set.
func (p *Product) PackagingInfo() string {
	pieces := 0
	if p.PackagingPieces != nil {
		pieces = *p.PackagingPieces
	}
	grams := 0
	if p.UnitGrams != nil {
		grams = *p.UnitGrams
	}

	switch {
	case pieces > 0 && grams > 0:
		return fmt.Sprintf("%d stuks × ±%dg", pieces, grams)
	case grams > 0:
		return fmt.Sprintf("±%dg", grams)
	case pieces > 0:
		return fmt.Sprintf("%d stuks", pieces)
	default:
		return ""
	}
}
