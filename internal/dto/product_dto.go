package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=2,max=120"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"       validate:"required"`
	Cost        decimal.Decimal `json:"cost"        validate:"min=0"`
	CategoryID  string          `json:"category_id" validate:"required,uuid"`
	UnitID      string          `json:"unit_id"     validate:"required,uuid"`
	Barcode     *string         `json:"barcode"     validate:"omitempty,min=8,max=18"`
	ProductType string          `json:"product_type" validate:"required,oneof=UNIT FRACTIONED"`
	// FRACTIONED only
	VolumePerDispenseMl *int    `json:"volume_per_dispense_ml" validate:"omitempty,min=1"`
	BarrelID            *string `json:"barrel_id"              validate:"omitempty,uuid"`
	// UNIT only — initial inventory row
	Quantity    int  `json:"quantity"     validate:"min=0"`
	MinQuantity int  `json:"min_quantity" validate:"min=0"`
	MaxQuantity *int `json:"max_quantity" validate:"omitempty,min=0"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=2,max=120"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	UnitID      *string          `json:"unit_id"     validate:"omitempty,uuid"`
	Barcode     *string          `json:"barcode"     validate:"omitempty,min=8,max=18"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Name        string `form:"name"`
	Barcode     string `form:"barcode"`
	CategoryID  string `form:"category_id"`
	ProductType string `form:"product_type"`
	Active      string `form:"active"` // "false" = inactive, "all" = everything, default active
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductInventoryInfo struct {
	Quantity    int  `json:"quantity"`
	MinQuantity int  `json:"min_quantity"`
	MaxQuantity *int `json:"max_quantity"`
}

type ProductBarrelInfo struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	VolumeAvailableMl int    `json:"volume_available_ml"`
	IsLowVolume       bool   `json:"is_low_volume"`
}

type ProductResponse struct {
	ID                  string                `json:"id"`
	Name                string                `json:"name"`
	Description         *string               `json:"description"`
	Price               decimal.Decimal       `json:"price"`
	Cost                decimal.Decimal       `json:"cost"`
	Category            string                `json:"category"`
	Unit                string                `json:"unit"`
	Barcode             *string               `json:"barcode"`
	IsActive            bool                  `json:"is_active"`
	ProductType         string                `json:"product_type"`
	VolumePerDispenseMl *int                  `json:"volume_per_dispense_ml,omitempty"`
	Inventory           *ProductInventoryInfo `json:"inventory,omitempty"`
	Barrel              *ProductBarrelInfo    `json:"barrel,omitempty"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
