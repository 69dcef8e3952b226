package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus transitions PENDING → REDEEMED, one way only.
type TicketStatus string

const (
	TicketStatusPending  TicketStatus = "PENDING"
	TicketStatusRedeemed TicketStatus = "REDEEMED"
)

// Ticket is a per-unit pickup voucher for a fractional sale line: buying
// quantity=3 of a FRACTIONED product issues 3 tickets (sequence 1/3..3/3),
// each redeemable for one dispense at the tap.
// QRCode is derived deterministically from {saleID, saleItemID, sequence}.
type Ticket struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleItemID   uuid.UUID    `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	BarrelID     uuid.UUID    `gorm:"type:uuid;not null;index"`
	Sequence     int          `gorm:"not null"`
	TotalTickets int          `gorm:"not null"`
	Status       TicketStatus `gorm:"type:varchar(15);not null;default:'PENDING'"`
	QRCode       string       `gorm:"uniqueIndex;not null"`
	RedeemedAt   *time.Time
	CreatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
