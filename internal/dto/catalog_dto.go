package dto

// ─── Categories ──────────────────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=80"`
	Description *string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=80"`
	Description *string `json:"description"`
}

type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsActive    bool    `json:"is_active"`
}

// ─── Measure units ───────────────────────────────────────────────────────────

type CreateUnitRequest struct {
	Name         string `json:"name"         validate:"required,min=1,max=40"`
	Abbreviation string `json:"abbreviation" validate:"required,min=1,max=10"`
}

type UnitResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}
