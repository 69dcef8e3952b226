package repository

import (
	"context"

	"barpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryRepository is the unit-count stock ledger.
// DecrementStockTx is the only downward write path used by the sale engine;
// it is a single conditional UPDATE so two concurrent sales can never jointly
// oversell — the loser matches zero rows and the caller rolls back.
type InventoryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, inv *model.Inventory) error
	FindByProductID(ctx context.Context, productID uuid.UUID) (*model.Inventory, error)
	List(ctx context.Context) ([]model.Inventory, error)
	SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (int64, error)
	LowStock(ctx context.Context) ([]model.Inventory, error)

	// DecrementStockTx atomically decrements quantity when enough is available.
	// Returns the number of rows affected: 0 means insufficient stock.
	DecrementStockTx(tx *gorm.DB, productID uuid.UUID, quantity int) (int64, error)
	// QuantityTx re-reads the current quantity inside the transaction,
	// used to build the available-vs-requested error message.
	QuantityTx(tx *gorm.DB, productID uuid.UUID) (int, error)
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) Create(ctx context.Context, tx *gorm.DB, inv *model.Inventory) error {
	return tx.WithContext(ctx).Create(inv).Error
}

func (r *inventoryRepo) FindByProductID(ctx context.Context, productID uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&inv).Error
	return &inv, err
}

func (r *inventoryRepo) List(ctx context.Context) ([]model.Inventory, error) {
	var rows []model.Inventory
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = inventory.product_id").
		Preload("Product.Category").Preload("Product.Unit").
		Order("products.name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *inventoryRepo) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Inventory{}).
		Where("product_id = ?", productID).
		Update("quantity", quantity)
	return res.RowsAffected, res.Error
}

func (r *inventoryRepo) LowStock(ctx context.Context) ([]model.Inventory, error) {
	var rows []model.Inventory
	err := r.db.WithContext(ctx).
		Where("quantity <= min_quantity").
		Preload("Product").
		Find(&rows).Error
	return rows, err
}

func (r *inventoryRepo) DecrementStockTx(tx *gorm.DB, productID uuid.UUID, quantity int) (int64, error) {
	res := tx.Model(&model.Inventory{}).
		Where("product_id = ? AND quantity >= ?", productID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	return res.RowsAffected, res.Error
}

func (r *inventoryRepo) QuantityTx(tx *gorm.DB, productID uuid.UUID) (int, error) {
	var inv model.Inventory
	err := tx.Where("product_id = ?", productID).First(&inv).Error
	return inv.Quantity, err
}
