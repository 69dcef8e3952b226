package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is created exactly once per checkout and never mutated afterwards.
// Total = Σ(item subtotals) − Discount, enforced by the sale engine.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Discount      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'COMPLETED'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	User  *User      `gorm:"foreignKey:UserID"`
	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

// SaleItem is one cart line, created in the same transaction as its Sale.
// VolumeDispensedMl is set only for FRACTIONED lines
// (quantity × product.VolumePerDispenseMl).
type SaleItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity          int             `gorm:"not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	VolumeDispensedMl *int
	CreatedAt         time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
	Tickets []Ticket `gorm:"foreignKey:SaleItemID"`
}
