package dto

// RedeemTicketRequest identifies the voucher by its printed QR code.
type RedeemTicketRequest struct {
	QRCode string `json:"qr_code" validate:"required"`
}

type TicketDetailResponse struct {
	ID           string `json:"id"`
	SaleItemID   string `json:"sale_item_id"`
	Product      string `json:"product"`
	BarrelID     string `json:"barrel_id"`
	Sequence     int    `json:"sequence"`
	TotalTickets int    `json:"total_tickets"`
	Status       string `json:"status"`
	QRCode       string `json:"qr_code"`
	RedeemedAt   *string `json:"redeemed_at,omitempty"`
	CreatedAt    string `json:"created_at"`
}
