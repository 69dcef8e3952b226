package repository

import (
	"context"

	"barpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BarrelRepository tracks keg volume and its immutable movement ledger.
type BarrelRepository interface {
	Create(ctx context.Context, tx *gorm.DB, b *model.Barrel) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Barrel, error)
	List(ctx context.Context, includeAll bool) ([]model.Barrel, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status model.BarrelStatus) error

	// DecrementVolumeTx atomically draws volume when enough remains.
	// Returns rows affected: 0 means insufficient volume.
	DecrementVolumeTx(tx *gorm.DB, id uuid.UUID, volumeMl int) (int64, error)
	// VolumeAvailableTx re-reads the remaining volume inside the transaction.
	VolumeAvailableTx(tx *gorm.DB, id uuid.UUID) (int, error)
	// AdjustVolumeTx applies a signed delta, clamped by the same guard:
	// the update only matches when the result stays within [0, volume_total_ml].
	AdjustVolumeTx(tx *gorm.DB, id uuid.UUID, deltaMl int) (int64, error)

	CreateMovementTx(tx *gorm.DB, m *model.BarrelMovement) error
	ListMovements(ctx context.Context, barrelID uuid.UUID) ([]model.BarrelMovement, error)

	DB() *gorm.DB
}

type barrelRepo struct{ db *gorm.DB }

func NewBarrelRepository(db *gorm.DB) BarrelRepository { return &barrelRepo{db: db} }

func (r *barrelRepo) DB() *gorm.DB { return r.db }

func (r *barrelRepo) Create(ctx context.Context, tx *gorm.DB, b *model.Barrel) error {
	return tx.WithContext(ctx).Create(b).Error
}

func (r *barrelRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Barrel, error) {
	var b model.Barrel
	err := r.db.WithContext(ctx).First(&b, id).Error
	return &b, err
}

func (r *barrelRepo) List(ctx context.Context, includeAll bool) ([]model.Barrel, error) {
	var barrels []model.Barrel
	q := r.db.WithContext(ctx)
	if !includeAll {
		q = q.Where("status <> ?", model.BarrelStatusClosed)
	}
	err := q.Order("created_at DESC").Find(&barrels).Error
	return barrels, err
}

func (r *barrelRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status model.BarrelStatus) error {
	return tx.WithContext(ctx).Model(&model.Barrel{}).Where("id = ?", id).Update("status", status).Error
}

func (r *barrelRepo) DecrementVolumeTx(tx *gorm.DB, id uuid.UUID, volumeMl int) (int64, error) {
	res := tx.Model(&model.Barrel{}).
		Where("id = ? AND volume_available_ml >= ?", id, volumeMl).
		Update("volume_available_ml", gorm.Expr("volume_available_ml - ?", volumeMl))
	return res.RowsAffected, res.Error
}

func (r *barrelRepo) VolumeAvailableTx(tx *gorm.DB, id uuid.UUID) (int, error) {
	var b model.Barrel
	err := tx.First(&b, id).Error
	return b.VolumeAvailableMl, err
}

func (r *barrelRepo) AdjustVolumeTx(tx *gorm.DB, id uuid.UUID, deltaMl int) (int64, error) {
	res := tx.Model(&model.Barrel{}).
		Where("id = ? AND volume_available_ml + ? >= 0 AND volume_available_ml + ? <= volume_total_ml",
			id, deltaMl, deltaMl).
		Update("volume_available_ml", gorm.Expr("volume_available_ml + ?", deltaMl))
	return res.RowsAffected, res.Error
}

func (r *barrelRepo) CreateMovementTx(tx *gorm.DB, m *model.BarrelMovement) error {
	return tx.Create(m).Error
}

func (r *barrelRepo) ListMovements(ctx context.Context, barrelID uuid.UUID) ([]model.BarrelMovement, error) {
	var movements []model.BarrelMovement
	err := r.db.WithContext(ctx).
		Where("barrel_id = ?", barrelID).
		Order("created_at DESC").
		Find(&movements).Error
	return movements, err
}
