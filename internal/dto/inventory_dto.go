package dto

import "github.com/shopspring/decimal"

// SetQuantityRequest replaces the absolute stock count of a UNIT product.
// This is the explicit adjustment write path, separate from the sale engine.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

type InventoryProductInfo struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
	IsActive bool            `json:"is_active"`
}

type InventoryResponse struct {
	ID          string               `json:"id"`
	ProductID   string               `json:"product_id"`
	Quantity    int                  `json:"quantity"`
	MinQuantity int                  `json:"min_quantity"`
	MaxQuantity *int                 `json:"max_quantity"`
	Product     InventoryProductInfo `json:"product"`
}

// StockAlertResponse is one product at or below its minimum quantity.
type StockAlertResponse struct {
	ProductID   string `json:"product_id"`
	Product     string `json:"product"`
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
}
