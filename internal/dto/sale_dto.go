package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SaleItemRequest is one cart line. The caller-supplied price is trusted
// as-is; no server-side repricing happens.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	Price     decimal.Decimal `json:"price"      validate:"min=0"`
}

type ProcessSaleRequest struct {
	Items         []SaleItemRequest `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash debit credit pix"`
	Discount      decimal.Decimal   `json:"discount"       validate:"min=0"`
	// CustomerEmail: optional — when present, the receipt worker mails the PDF.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Date   string `form:"date"`                     // YYYY-MM-DD; empty = today
	Status string `form:"status,default=COMPLETED"` // COMPLETED | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ID                string          `json:"id"`
	Product           string          `json:"product"`
	Unit              string          `json:"unit"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	VolumeDispensedMl *int            `json:"volume_dispensed_ml,omitempty"`
}

type TicketResponse struct {
	ID           string `json:"id"`
	SaleItemID   string `json:"sale_item_id"`
	ProductID    string `json:"product_id"`
	BarrelID     string `json:"barrel_id"`
	Sequence     int    `json:"sequence"`
	TotalTickets int    `json:"total_tickets"`
	Status       string `json:"status"`
	QRCode       string `json:"qr_code"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	Cashier       string             `json:"cashier,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	Tickets       []TicketResponse   `json:"tickets,omitempty"`
	CreatedAt     string             `json:"created_at"`
}

// ProcessSaleResponse is the 201 envelope of POST /v1/sales.
type ProcessSaleResponse struct {
	Message          string       `json:"message"`
	Sale             SaleResponse `json:"sale"`
	TicketsGenerated int          `json:"tickets_generated"`
}
