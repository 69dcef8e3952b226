package repository

import (
	"context"

	"barpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnitRepository interface {
	Create(ctx context.Context, u *model.MeasureUnit) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MeasureUnit, error)
	List(ctx context.Context) ([]model.MeasureUnit, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type unitRepo struct{ db *gorm.DB }

func NewUnitRepository(db *gorm.DB) UnitRepository { return &unitRepo{db: db} }

func (r *unitRepo) Create(ctx context.Context, u *model.MeasureUnit) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *unitRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MeasureUnit, error) {
	var u model.MeasureUnit
	err := r.db.WithContext(ctx).First(&u, id).Error
	return &u, err
}

func (r *unitRepo) List(ctx context.Context) ([]model.MeasureUnit, error) {
	var units []model.MeasureUnit
	err := r.db.WithContext(ctx).Order("name ASC").Find(&units).Error
	return units, err
}

func (r *unitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MeasureUnit{}, id).Error
}
