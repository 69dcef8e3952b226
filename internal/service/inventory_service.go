package service

import (
	"context"
	"errors"

	"barpos/internal/dto"
	"barpos/internal/model"
	"barpos/internal/repository"

	"github.com/google/uuid"
)

// InventoryService is the explicit stock-adjustment write path — separate
// from the sale engine, which is the only other writer of Inventory.Quantity.
type InventoryService interface {
	List(ctx context.Context) ([]dto.InventoryResponse, error)
	SetQuantity(ctx context.Context, productID uuid.UUID, req dto.SetQuantityRequest) (*dto.InventoryResponse, error)
	Alerts(ctx context.Context) ([]dto.StockAlertResponse, error)
}

type inventoryService struct {
	repo        repository.InventoryRepository
	productRepo repository.ProductRepository
}

func NewInventoryService(repo repository.InventoryRepository, productRepo repository.ProductRepository) InventoryService {
	return &inventoryService{repo: repo, productRepo: productRepo}
}

func (s *inventoryService) List(ctx context.Context) ([]dto.InventoryResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *inventoryToResponse(&rows[i]))
	}
	return out, nil
}

func (s *inventoryService) SetQuantity(ctx context.Context, productID uuid.UUID, req dto.SetQuantityRequest) (*dto.InventoryResponse, error) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, errors.New("product not found")
	}
	if p.IsFractioned() {
		return nil, errors.New("fractioned products have no inventory; adjust the barrel instead")
	}

	rows, err := s.repo.SetQuantity(ctx, productID, req.Quantity)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, errors.New("inventory record not found")
	}

	inv, err := s.repo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	inv.Product = p
	return inventoryToResponse(inv), nil
}

func (s *inventoryService) Alerts(ctx context.Context) ([]dto.StockAlertResponse, error) {
	rows, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockAlertResponse, 0, len(rows))
	for _, inv := range rows {
		name := ""
		if inv.Product != nil {
			name = inv.Product.Name
		}
		out = append(out, dto.StockAlertResponse{
			ProductID:   inv.ProductID.String(),
			Product:     name,
			Quantity:    inv.Quantity,
			MinQuantity: inv.MinQuantity,
		})
	}
	return out, nil
}

func inventoryToResponse(inv *model.Inventory) *dto.InventoryResponse {
	resp := &dto.InventoryResponse{
		ID:          inv.ID.String(),
		ProductID:   inv.ProductID.String(),
		Quantity:    inv.Quantity,
		MinQuantity: inv.MinQuantity,
		MaxQuantity: inv.MaxQuantity,
	}
	if p := inv.Product; p != nil {
		resp.Product = dto.InventoryProductInfo{
			ID:       p.ID.String(),
			Name:     p.Name,
			Price:    p.Price,
			IsActive: p.IsActive,
		}
		if p.Category != nil {
			resp.Product.Category = p.Category.Name
		}
		if p.Unit != nil {
			resp.Product.Unit = p.Unit.Abbreviation
		}
	}
	return resp
}
