package models

import (
	"time"
)

// Batch represents a slaughter batch with its own pickup schedule and
// eligible product subset
type Batch struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Slug           string       `gorm:"uniqueIndex;not null" json:"slug"`
	Name           string       `gorm:"not null" json:"name"`
	PickupLocation string       `gorm:"not null" json:"pickup_location"`
	PickupText     *string      `json:"pickup_text"` // for freezer batches: "Op afspraak"
	IsFreezer      bool         `gorm:"not null;default:false;index" json:"is_freezer"`
	IsActive       bool         `gorm:"not null;default:true;index" json:"is_active"`
	PickupSlots    []PickupSlot `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE" json:"pickup_slots"`
	Products       []Product    `gorm:"many2many:batch_products" json:"products"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// TableName specifies the table name for the Batch model
func (Batch) TableName() string {
	return "batches"
}

// PickupSlot represents a pickup time window offered within a batch
type PickupSlot struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BatchID   uint   `gorm:"not null;index" json:"batch_id"`
	Date      string `gorm:"not null" json:"date"` // YYYY-MM-DD
	Time      string `gorm:"not null" json:"time"` // e.g. "17:00 - 19:00"
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

// TableName specifies the table name for the PickupSlot model
func (PickupSlot) TableName() string {
	return "pickup_slots"
}
