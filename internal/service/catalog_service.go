package service

import (
	"context"
	"errors"

	"barpos/internal/dto"
	"barpos/internal/model"
	"barpos/internal/repository"

	"github.com/google/uuid"
)

// ── Categories ────────────────────────────────────────────────────────────────

type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	c := &model.Category{Name: req.Name, Description: req.Description, IsActive: true}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return categoryToResponse(c), nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, *categoryToResponse(&categories[i]))
	}
	return out, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("category not found")
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return categoryToResponse(c), nil
}

func (s *categoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("category not found")
	}
	return s.repo.SoftDelete(ctx, id)
}

func categoryToResponse(c *model.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
	}
}

// ── Measure units ─────────────────────────────────────────────────────────────

type UnitService interface {
	Create(ctx context.Context, req dto.CreateUnitRequest) (*dto.UnitResponse, error)
	List(ctx context.Context) ([]dto.UnitResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type unitService struct {
	repo repository.UnitRepository
}

func NewUnitService(repo repository.UnitRepository) UnitService {
	return &unitService{repo: repo}
}

func (s *unitService) Create(ctx context.Context, req dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	u := &model.MeasureUnit{Name: req.Name, Abbreviation: req.Abbreviation}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return &dto.UnitResponse{ID: u.ID.String(), Name: u.Name, Abbreviation: u.Abbreviation}, nil
}

func (s *unitService) List(ctx context.Context) ([]dto.UnitResponse, error) {
	units, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, dto.UnitResponse{ID: u.ID.String(), Name: u.Name, Abbreviation: u.Abbreviation})
	}
	return out, nil
}

func (s *unitService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("measure unit not found")
	}
	return s.repo.Delete(ctx, id)
}
