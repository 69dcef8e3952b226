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

// BarrelService owns the keg lifecycle: ACTIVE → CLOSED (terminal) or
// ACTIVE ↔ MAINTENANCE. Closing records the residual volume as a CLOSE
// movement. Reaching MinResidueMl only raises the low-volume flag — it never
// blocks sales; only an insufficient remaining volume does that.
type BarrelService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateBarrelRequest) (*dto.BarrelResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.BarrelResponse, error)
	List(ctx context.Context, includeAll bool) ([]dto.BarrelResponse, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, req dto.UpdateBarrelStatusRequest) (*dto.BarrelResponse, error)
	AdjustVolume(ctx context.Context, userID, id uuid.UUID, req dto.AdjustBarrelVolumeRequest) (*dto.BarrelResponse, error)
	ListMovements(ctx context.Context, id uuid.UUID) ([]dto.BarrelMovementResponse, error)
}

type barrelService struct {
	repo repository.BarrelRepository
}

func NewBarrelService(repo repository.BarrelRepository) BarrelService {
	return &barrelService{repo: repo}
}

func (s *barrelService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateBarrelRequest) (*dto.BarrelResponse, error) {
	if req.MinResidueMl >= req.VolumeTotalMl {
		return nil, errors.New("min_residue_ml must be below volume_total_ml")
	}

	barrel := &model.Barrel{
		Name:              req.Name,
		VolumeTotalMl:     req.VolumeTotalMl,
		VolumeAvailableMl: req.VolumeTotalMl,
		MinResidueMl:      req.MinResidueMl,
		Status:            model.BarrelStatusActive,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, barrel); err != nil {
			return err
		}
		actor := userID
		return s.repo.CreateMovementTx(tx, &model.BarrelMovement{
			BarrelID:  barrel.ID,
			Type:      model.BarrelMovementOpen,
			VolumeMl:  barrel.VolumeTotalMl,
			Reference: "barrel opened",
			UserID:    &actor,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	return barrelToResponse(barrel), nil
}

func (s *barrelService) Get(ctx context.Context, id uuid.UUID) (*dto.BarrelResponse, error) {
	barrel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("barrel not found")
	}
	return barrelToResponse(barrel), nil
}

func (s *barrelService) List(ctx context.Context, includeAll bool) ([]dto.BarrelResponse, error) {
	barrels, err := s.repo.List(ctx, includeAll)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BarrelResponse, 0, len(barrels))
	for i := range barrels {
		out = append(out, *barrelToResponse(&barrels[i]))
	}
	return out, nil
}

// validTransitions encodes the lifecycle: CLOSED is terminal.
var validTransitions = map[model.BarrelStatus][]model.BarrelStatus{
	model.BarrelStatusActive:      {model.BarrelStatusClosed, model.BarrelStatusMaintenance},
	model.BarrelStatusMaintenance: {model.BarrelStatusActive},
	model.BarrelStatusClosed:      {},
}

func canTransition(from, to model.BarrelStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *barrelService) UpdateStatus(ctx context.Context, userID, id uuid.UUID, req dto.UpdateBarrelStatusRequest) (*dto.BarrelResponse, error) {
	barrel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("barrel not found")
	}

	target := model.BarrelStatus(req.Status)
	if target == barrel.Status {
		return barrelToResponse(barrel), nil
	}
	if !canTransition(barrel.Status, target) {
		return nil, fmt.Errorf("invalid barrel transition %s -> %s", barrel.Status, target)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatus(ctx, tx, id, target); err != nil {
			return err
		}
		if target == model.BarrelStatusClosed {
			// Record the residual volume on closure.
			actor := userID
			return s.repo.CreateMovementTx(tx, &model.BarrelMovement{
				BarrelID:  id,
				Type:      model.BarrelMovementClose,
				VolumeMl:  barrel.VolumeAvailableMl,
				Reference: "barrel closed with residual volume",
				UserID:    &actor,
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	barrel.Status = target
	return barrelToResponse(barrel), nil
}

func (s *barrelService) AdjustVolume(ctx context.Context, userID, id uuid.UUID, req dto.AdjustBarrelVolumeRequest) (*dto.BarrelResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, errors.New("barrel not found")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.AdjustVolumeTx(tx, id, req.DeltaMl)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errors.New("adjustment would leave volume outside [0, total]")
		}
		actor := userID
		return s.repo.CreateMovementTx(tx, &model.BarrelMovement{
			BarrelID:  id,
			Type:      model.BarrelMovementAdjustment,
			VolumeMl:  req.DeltaMl,
			Reference: req.Reason,
			UserID:    &actor,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	barrel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return barrelToResponse(barrel), nil
}

func (s *barrelService) ListMovements(ctx context.Context, id uuid.UUID) ([]dto.BarrelMovementResponse, error) {
	movements, err := s.repo.ListMovements(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BarrelMovementResponse, 0, len(movements))
	for _, m := range movements {
		var userID *string
		if m.UserID != nil {
			id := m.UserID.String()
			userID = &id
		}
		out = append(out, dto.BarrelMovementResponse{
			ID:        m.ID.String(),
			BarrelID:  m.BarrelID.String(),
			Type:      m.Type,
			VolumeMl:  m.VolumeMl,
			Reference: m.Reference,
			UserID:    userID,
			CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return out, nil
}

func barrelToResponse(b *model.Barrel) *dto.BarrelResponse {
	return &dto.BarrelResponse{
		ID:                b.ID.String(),
		Name:              b.Name,
		VolumeTotalMl:     b.VolumeTotalMl,
		VolumeAvailableMl: b.VolumeAvailableMl,
		MinResidueMl:      b.MinResidueMl,
		Status:            string(b.Status),
		IsLowVolume:       b.IsLowVolume(),
		CreatedAt:         b.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
