package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventory is the unit-count stock ledger, one row per UNIT product.
// Quantity is only written by the sale engine (conditional decrement) and by
// the explicit stock-adjustment endpoint. It can never go below zero; the
// decrement statement re-validates availability and the schema carries a
// CHECK constraint as a second line of defense.
type Inventory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Quantity    int       `gorm:"not null;default:0"`
	MinQuantity int       `gorm:"not null;default:0"`
	MaxQuantity *int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// TableName overrides GORM's pluralization (inventory, not inventories).
func (Inventory) TableName() string { return "inventory" }
