package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductType distinguishes how stock is tracked for a product.
// UNIT products decrement an Inventory row; FRACTIONED products
// decrement the remaining volume of their linked Barrel.
type ProductType string

const (
	ProductTypeUnit       ProductType = "UNIT"
	ProductTypeFractioned ProductType = "FRACTIONED"
)

// Product is a sellable catalog entry.
// For FRACTIONED products VolumePerDispenseMl and BarrelID are mandatory
// and no Inventory row exists — the barrel IS the stock representation.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Cost        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitID      uuid.UUID       `gorm:"type:uuid;not null"`
	// Barcode is optional; uniqueness is only enforced among non-null values.
	Barcode             *string     `gorm:"uniqueIndex"`
	IsActive            bool        `gorm:"not null;default:true"`
	ProductType         ProductType `gorm:"type:varchar(12);not null;default:'UNIT'"`
	VolumePerDispenseMl *int
	BarrelID            *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Category  *Category    `gorm:"foreignKey:CategoryID"`
	Unit      *MeasureUnit `gorm:"foreignKey:UnitID"`
	Barrel    *Barrel      `gorm:"foreignKey:BarrelID"`
	Inventory *Inventory   `gorm:"foreignKey:ProductID"`
}

// IsFractioned reports whether stock lives in a barrel instead of inventory.
func (p *Product) IsFractioned() bool { return p.ProductType == ProductTypeFractioned }
