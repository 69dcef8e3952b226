package service

import (
	"context"
	"errors"
	"fmt"

	"barpos/internal/dto"
	"barpos/internal/model"
	"barpos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo          repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	barrelRepo    repository.BarrelRepository
	categoryRepo  repository.CategoryRepository
	unitRepo      repository.UnitRepository
}

func NewProductService(
	repo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	barrelRepo repository.BarrelRepository,
	categoryRepo repository.CategoryRepository,
	unitRepo repository.UnitRepository,
) ProductService {
	return &productService{
		repo:          repo,
		inventoryRepo: inventoryRepo,
		barrelRepo:    barrelRepo,
		categoryRepo:  categoryRepo,
		unitRepo:      unitRepo,
	}
}

// Create registers a product and its stock representation in one transaction:
// UNIT products get an Inventory row; FRACTIONED products must reference an
// ACTIVE barrel and carry a dispense volume — they never have inventory.
func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, errors.New("invalid category_id")
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, errors.New("category not found")
	}
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		return nil, errors.New("invalid unit_id")
	}
	if _, err := s.unitRepo.FindByID(ctx, unitID); err != nil {
		return nil, errors.New("measure unit not found")
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		CategoryID:  categoryID,
		UnitID:      unitID,
		Barcode:     req.Barcode,
		IsActive:    true,
		ProductType: model.ProductType(req.ProductType),
	}

	if product.ProductType == model.ProductTypeFractioned {
		if req.VolumePerDispenseMl == nil || req.BarrelID == nil {
			return nil, errors.New("fractioned products require volume_per_dispense_ml and barrel_id")
		}
		barrelID, err := uuid.Parse(*req.BarrelID)
		if err != nil {
			return nil, errors.New("invalid barrel_id")
		}
		barrel, err := s.barrelRepo.FindByID(ctx, barrelID)
		if err != nil {
			return nil, errors.New("barrel not found")
		}
		if barrel.Status != model.BarrelStatusActive {
			return nil, fmt.Errorf("barrel %s is not ACTIVE", barrel.Name)
		}
		product.VolumePerDispenseMl = req.VolumePerDispenseMl
		product.BarrelID = &barrelID
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, product); err != nil {
			return err
		}
		if product.ProductType == model.ProductTypeUnit {
			return s.inventoryRepo.Create(ctx, tx, &model.Inventory{
				ProductID:   product.ID,
				Quantity:    req.Quantity,
				MinQuantity: req.MinQuantity,
				MaxQuantity: req.MaxQuantity,
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.Get(ctx, product.ID)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	return productToResponse(p), nil
}

func (s *productService) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, errors.New("product not found")
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Cost != nil {
		p.Cost = *req.Cost
	}
	if req.Barcode != nil {
		p.Barcode = req.Barcode
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, errors.New("invalid category_id")
		}
		if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
			return nil, errors.New("category not found")
		}
		p.CategoryID = categoryID
	}
	if req.UnitID != nil {
		unitID, err := uuid.Parse(*req.UnitID)
		if err != nil {
			return nil, errors.New("invalid unit_id")
		}
		if _, err := s.unitRepo.FindByID(ctx, unitID); err != nil {
			return nil, errors.New("measure unit not found")
		}
		p.UnitID = unitID
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("product not found")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("product not found")
	}
	return s.repo.Reactivate(ctx, id)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:                  p.ID.String(),
		Name:                p.Name,
		Description:         p.Description,
		Price:               p.Price,
		Cost:                p.Cost,
		Barcode:             p.Barcode,
		IsActive:            p.IsActive,
		ProductType:         string(p.ProductType),
		VolumePerDispenseMl: p.VolumePerDispenseMl,
	}
	if p.Category != nil {
		resp.Category = p.Category.Name
	}
	if p.Unit != nil {
		resp.Unit = p.Unit.Abbreviation
	}
	if p.Inventory != nil {
		resp.Inventory = &dto.ProductInventoryInfo{
			Quantity:    p.Inventory.Quantity,
			MinQuantity: p.Inventory.MinQuantity,
			MaxQuantity: p.Inventory.MaxQuantity,
		}
	}
	if p.Barrel != nil {
		resp.Barrel = &dto.ProductBarrelInfo{
			ID:                p.Barrel.ID.String(),
			Name:              p.Barrel.Name,
			VolumeAvailableMl: p.Barrel.VolumeAvailableMl,
			IsLowVolume:       p.Barrel.IsLowVolume(),
		}
	}
	return resp
}
