package model

import (
	"time"

	"github.com/google/uuid"
)

// MeasureUnit is a measurement unit shown on receipts (un, ml, l, kg).
type MeasureUnit struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"uniqueIndex;not null"`
	Abbreviation string    `gorm:"type:varchar(10);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName keeps the short table name used by the rest of the schema.
func (MeasureUnit) TableName() string { return "units" }
