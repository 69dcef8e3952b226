package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateBarrelRequest struct {
	Name          string `json:"name"            validate:"required,min=2,max=120"`
	VolumeTotalMl int    `json:"volume_total_ml" validate:"required,min=1"`
	MinResidueMl  int    `json:"min_residue_ml"  validate:"min=0"`
}

type UpdateBarrelStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE CLOSED MAINTENANCE"`
}

// AdjustBarrelVolumeRequest applies a manual correction outside the sale path.
// DeltaMl may be negative (spillage, foam loss) or positive (recount).
type AdjustBarrelVolumeRequest struct {
	DeltaMl int    `json:"delta_ml" validate:"required"`
	Reason  string `json:"reason"   validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BarrelResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	VolumeTotalMl     int    `json:"volume_total_ml"`
	VolumeAvailableMl int    `json:"volume_available_ml"`
	MinResidueMl      int    `json:"min_residue_ml"`
	Status            string `json:"status"`
	IsLowVolume       bool   `json:"is_low_volume"`
	CreatedAt         string `json:"created_at"`
}

type BarrelMovementResponse struct {
	ID        string `json:"id"`
	BarrelID  string `json:"barrel_id"`
	Type      string `json:"type"`
	VolumeMl  int    `json:"volume_ml"`
	Reference string `json:"reference"`
	UserID    *string `json:"user_id,omitempty"`
	CreatedAt string `json:"created_at"`
}
