package model

import (
	"time"

	"github.com/google/uuid"
)

// BarrelStatus is the lifecycle state of a keg.
// ACTIVE → CLOSED is terminal; ACTIVE ↔ MAINTENANCE is reversible.
type BarrelStatus string

const (
	BarrelStatusActive      BarrelStatus = "ACTIVE"
	BarrelStatusClosed      BarrelStatus = "CLOSED"
	BarrelStatusMaintenance BarrelStatus = "MAINTENANCE"
)

// Barrel is a bulk-volume container (beer keg) tracked in milliliters.
// VolumeAvailableMl is only written by the sale engine (conditional decrement),
// by manual adjustments, and by the closure flow.
type Barrel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name              string    `gorm:"not null"`
	VolumeTotalMl     int       `gorm:"not null"`
	VolumeAvailableMl int       `gorm:"not null"`
	// MinResidueMl marks the low-volume warning threshold. Sales are NOT
	// blocked at this level — only when the requested volume doesn't fit.
	MinResidueMl int          `gorm:"not null;default:0"`
	Status       BarrelStatus `gorm:"type:varchar(15);not null;default:'ACTIVE'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Movements []BarrelMovement `gorm:"foreignKey:BarrelID"`
}

// IsLowVolume flags the UI warning threshold.
func (b *Barrel) IsLowVolume() bool { return b.VolumeAvailableMl <= b.MinResidueMl }

// Barrel movement types.
const (
	BarrelMovementOpen       = "OPEN"
	BarrelMovementSale       = "SALE"
	BarrelMovementAdjustment = "ADJUSTMENT"
	BarrelMovementClose      = "CLOSE"
)

// BarrelMovement is an immutable event in the barrel volume ledger.
// Movements are never updated or deleted; corrections create new entries.
type BarrelMovement struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BarrelID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type      string     `gorm:"type:varchar(15);not null"`
	VolumeMl  int        `gorm:"not null"`
	Reference string     `gorm:"not null"`
	UserID    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}

func (BarrelMovement) TableName() string { return "barrel_movements" }
